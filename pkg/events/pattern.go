package events

import "strings"

// Wildcard matches a single segment; as the last segment it matches every
// remaining segment (at least one).
const Wildcard = "*"

// Pattern is a listener name containing at least one wildcard segment, for
// example "change:shipping.*" or "*:items.*.price".
type Pattern struct {
	Type string
	Path Path
}

// ParsePattern parses name and reports whether it contains a wildcard. Names
// without wildcards are plain exact-match subscriptions.
func ParsePattern(name string) (Pattern, bool) {
	if !strings.Contains(name, Wildcard) {
		return Pattern{}, false
	}
	eventType, rest, found := strings.Cut(name, ":")
	if eventType == "" {
		return Pattern{}, false
	}
	p := Pattern{Type: eventType}
	if found && rest != "" {
		p.Path = Path(strings.Split(rest, "."))
	}
	return p, true
}

// String renders the pattern in listener-name form.
func (p Pattern) String() string {
	if len(p.Path) == 0 {
		return p.Type
	}
	return p.Type + ":" + p.Path.String()
}

// Match reports whether e satisfies the pattern. Only qualified events can
// match, and a pattern never matches an event of a different type unless
// its type is the wildcard.
func (p Pattern) Match(e Event) bool {
	if !e.Qualified() || len(p.Path) == 0 {
		return false
	}
	if p.Type != Wildcard && p.Type != e.Type {
		return false
	}
	last := len(p.Path) - 1
	for i, segment := range p.Path {
		if i == last && segment == Wildcard {
			return len(e.Path) > i
		}
		if i >= len(e.Path) {
			return false
		}
		if segment != Wildcard && segment != e.Path[i] {
			return false
		}
	}
	return len(e.Path) == len(p.Path)
}
