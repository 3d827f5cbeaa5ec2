package events

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDispatchDepth is reported when nested dispatches on one bus exceed the
// configured limit, which usually means a listener keeps re-triggering the
// event it is handling.
var ErrDispatchDepth = errors.New("events: dispatch depth exceeded")

// Handler receives dispatched events.
type Handler func(Event)

// Subscription identifies a registered listener. The zero value is inactive.
type Subscription struct {
	id   uint64
	name string
}

// Active reports whether the subscription was issued by a bus.
func (s Subscription) Active() bool {
	return s.id != 0
}

// Name returns the listener name the subscription was registered under.
func (s Subscription) Name() string {
	return s.name
}

const relayName = "\x00relay"

type listener struct {
	id      uint64
	handler Handler
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithMaxDepth bounds nested dispatches on the bus. Zero disables the guard.
func WithMaxDepth(depth int) BusOption {
	return func(b *Bus) {
		b.maxDepth = depth
	}
}

// WithDropHandler registers a callback for events dropped by the depth guard.
func WithDropHandler(fn func(Event, error)) BusOption {
	return func(b *Bus) {
		b.onDrop = fn
	}
}

// Bus is a synchronous listener registry. Dispatch order for one event is:
// exact-name listeners, matching wildcard patterns in registration order,
// "all" listeners, then relays. Listeners may subscribe or unsubscribe while
// an event is being dispatched; the change applies to the next dispatch.
//
// A Bus is not safe for concurrent use.
type Bus struct {
	nextID   uint64
	named    map[string][]listener
	order    []string
	patterns map[string]Pattern
	all      []listener
	relays   []listener
	depth    int
	maxDepth int
	onDrop   func(Event, error)
}

// NewBus constructs an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// On registers handler for name. The name "all" receives every event;
// names containing "*" segments are wildcard patterns.
func (b *Bus) On(name string, handler Handler) Subscription {
	if handler == nil {
		return Subscription{}
	}
	if name == TypeAll {
		return b.OnAll(handler)
	}
	if b.named == nil {
		b.named = map[string][]listener{}
	}
	l := b.listener(handler)
	if _, exists := b.named[name]; !exists {
		b.order = append(b.order, name)
		if pattern, ok := ParsePattern(name); ok {
			if b.patterns == nil {
				b.patterns = map[string]Pattern{}
			}
			b.patterns[name] = pattern
		}
	}
	b.named[name] = append(b.named[name], l)
	return Subscription{id: l.id, name: name}
}

// OnAll registers handler for every event dispatched on the bus.
func (b *Bus) OnAll(handler Handler) Subscription {
	if handler == nil {
		return Subscription{}
	}
	l := b.listener(handler)
	b.all = append(b.all, l)
	return Subscription{id: l.id, name: TypeAll}
}

// Relay registers handler to run after every local listener. Parents use
// relays to forward child events upward.
func (b *Bus) Relay(handler Handler) Subscription {
	if handler == nil {
		return Subscription{}
	}
	l := b.listener(handler)
	b.relays = append(b.relays, l)
	return Subscription{id: l.id, name: relayName}
}

// Off removes the listener identified by sub and reports whether it was
// registered.
func (b *Bus) Off(sub Subscription) bool {
	if !sub.Active() {
		return false
	}
	switch sub.name {
	case TypeAll:
		var removed bool
		b.all, removed = without(b.all, sub.id)
		return removed
	case relayName:
		var removed bool
		b.relays, removed = without(b.relays, sub.id)
		return removed
	}
	listeners, ok := b.named[sub.name]
	if !ok {
		return false
	}
	remaining, removed := without(listeners, sub.id)
	if len(remaining) == 0 {
		delete(b.named, sub.name)
		delete(b.patterns, sub.name)
		b.order = slices.DeleteFunc(b.order, func(name string) bool { return name == sub.name })
	} else {
		b.named[sub.name] = remaining
	}
	return removed
}

// Names returns the registered listener names in registration order.
func (b *Bus) Names() []string {
	return slices.Clone(b.order)
}

// Count returns the number of listeners registered under name.
func (b *Bus) Count(name string) int {
	if name == TypeAll {
		return len(b.all)
	}
	return len(b.named[name])
}

// Emit dispatches e synchronously.
func (b *Bus) Emit(e Event) error {
	if b.maxDepth > 0 && b.depth >= b.maxDepth {
		err := fmt.Errorf("%w: %s (limit %d)", ErrDispatchDepth, e.Name(), b.maxDepth)
		if b.onDrop != nil {
			b.onDrop(e, err)
		}
		return err
	}
	b.depth++
	defer func() { b.depth-- }()

	name := e.Name()
	call(b.named[name], e)
	if e.Qualified() && len(b.patterns) > 0 {
		for _, key := range slices.Clone(b.order) {
			if key == name {
				continue
			}
			pattern, ok := b.patterns[key]
			if !ok || !pattern.Match(e) {
				continue
			}
			call(b.named[key], e)
		}
	}
	call(b.all, e)
	call(b.relays, e)
	return nil
}

func (b *Bus) listener(handler Handler) listener {
	b.nextID++
	return listener{id: b.nextID, handler: handler}
}

func call(listeners []listener, e Event) {
	if len(listeners) == 0 {
		return
	}
	for _, l := range slices.Clone(listeners) {
		l.handler(e)
	}
}

func without(listeners []listener, id uint64) ([]listener, bool) {
	for i, l := range listeners {
		if l.id == id {
			return slices.Delete(slices.Clone(listeners), i, i+1), true
		}
	}
	return listeners, false
}
