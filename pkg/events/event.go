package events

import "strings"

// Well-known event types. Custom types are allowed anywhere a type is
// accepted.
const (
	TypeChange = "change"
	TypeAdd    = "add"
	TypeRemove = "remove"
	TypeReset  = "reset"
	TypeSync   = "sync"
	TypeAll    = "all"
)

// Path is an ordered list of attribute keys or collection indexes.
type Path []string

// String renders the path using dot separators.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Event is the structured form of a notification such as
// "change:shipping.street". Target is the node where the event originated.
type Event struct {
	Type     string
	Path     Path
	Target   any
	Value    any
	Previous any
}

// ParseEvent converts an event name ("type" or "type:a.b.c") into an Event.
func ParseEvent(name string) Event {
	eventType, rest, found := strings.Cut(name, ":")
	if !found || rest == "" {
		return Event{Type: eventType}
	}
	return Event{Type: eventType, Path: Path(strings.Split(rest, "."))}
}

// Name renders the event in its string form.
func (e Event) Name() string {
	if len(e.Path) == 0 {
		return e.Type
	}
	return e.Type + ":" + e.Path.String()
}

// Qualified reports whether the event carries a path.
func (e Event) Qualified() bool {
	return len(e.Path) > 0
}

// Under returns a copy of e with segment prepended to its path. The original
// path is not modified.
func (e Event) Under(segment string) Event {
	out := e
	path := make(Path, 0, len(e.Path)+1)
	path = append(path, segment)
	out.Path = append(path, e.Path...)
	return out
}
