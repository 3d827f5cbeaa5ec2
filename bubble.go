package docmodel

import (
	"github.com/goliatone/go-docmodel/pkg/events"
)

func (n *node) base() *node {
	return n
}

// Name returns the key or index under which the parent holds the node, or
// "" for a root.
func (n *node) Name() string {
	return n.name
}

// Parent returns the owning node, or nil for a root.
func (n *node) Parent() Node {
	return n.parent
}

// Root returns the outermost ancestor, which is n itself for a root.
func (n *node) Root() Node {
	return n.root()
}

// Path returns the names from the root down to the node.
func (n *node) Path() Path {
	return pathOf(n.self)
}

// On subscribes handler to name. Names take the forms "type",
// "type:a.b" and patterns with "*" segments such as "change:shipping.*";
// "all" receives every event.
func (n *node) On(name string, handler events.Handler) events.Subscription {
	return n.bus.On(name, handler)
}

func (n *node) OnAll(handler events.Handler) events.Subscription {
	return n.bus.OnAll(handler)
}

func (n *node) Off(sub events.Subscription) {
	n.bus.Off(sub)
}

// Trigger dispatches a custom event. Qualified and non-change events bubble
// to ancestors.
func (n *node) Trigger(name string, value any) {
	e := events.ParseEvent(name)
	e.Target = n.self
	e.Value = value
	n.emit(e)
}

func (n *node) emit(e events.Event) {
	if err := n.bus.Emit(e); err != nil {
		return
	}
	if n.isRoot && n.parent == nil && e.Type == events.TypeChange && e.Qualified() {
		n.recordChange(e)
	}
}

// changed emits "change:<key>" followed by a bare "change", unless the call
// batches bare changes.
func (n *node) changed(key string, current, previous any, so setOptions) {
	if so.silent {
		return
	}
	n.emit(events.Event{
		Type:     events.TypeChange,
		Path:     Path{key},
		Target:   n.self,
		Value:    current,
		Previous: previous,
	})
	if so.batch != nil {
		so.batch.add(n)
		return
	}
	n.emit(events.Event{Type: events.TypeChange, Target: n.self})
}
