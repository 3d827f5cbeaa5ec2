package docmodel

import (
	"github.com/goliatone/go-docmodel/pkg/events"
	"github.com/goliatone/go-docmodel/pkg/state"
)

// Event is a notification dispatched by a node, such as
// "change:shipping.street".
type Event = events.Event

// Kind tags what an attribute holds.
type Kind uint8

const (
	KindScalar Kind = iota
	KindDocument
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindDocument:
		return "document"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Node is implemented by *Document and *Collection.
type Node interface {
	Kind() Kind
	Name() string
	Parent() Node
	Root() Node
	Get(path string) any
	Lookup(path string) (any, bool)
	Set(path string, value any, opts ...SetOption) error
	Unset(path string, opts ...SetOption) error
	On(name string, handler events.Handler) events.Subscription
	OnAll(handler events.Handler) events.Subscription
	Off(sub events.Subscription)
	Trigger(name string, value any)
	// Plain returns the node as plain maps, slices and scalars.
	Plain() any

	base() *node
}

// value is a stored attribute. Exactly one of scalar or node is meaningful,
// as selected by kind.
type value struct {
	kind   Kind
	scalar any
	node   Node
}

func scalarValue(v any) value {
	return value{kind: KindScalar, scalar: v}
}

func nodeValue(n Node) value {
	return value{kind: n.Kind(), node: n}
}

// get returns what accessors hand out: the node itself or the scalar.
func (v value) get() any {
	switch v.kind {
	case KindDocument, KindCollection:
		return v.node
	default:
		return v.scalar
	}
}

func (v value) plain() any {
	switch v.kind {
	case KindDocument, KindCollection:
		return v.node.Plain()
	default:
		return v.scalar
	}
}

// node is the state shared by documents and collections.
type node struct {
	self   Node
	name   string
	parent Node
	// link is the relay the parent holds on this node's bus.
	link events.Subscription
	cfg  *config
	bus  *events.Bus
	// meta is only meaningful on a root that has been saved or fetched.
	meta state.Meta
	// isRoot marks a tree built as a root. A detached child has no parent
	// but is not a root.
	isRoot bool
}

func newNode(self Node, cfg *config) node {
	n := node{self: self, cfg: cfg}
	n.bus = events.NewBus(
		events.WithMaxDepth(cfg.maxDepth),
		events.WithDropHandler(func(e events.Event, err error) {
			cfg.log(LogEvent{
				Level:   LogLevelWarn,
				Message: "event dropped",
				Path:    pathOf(self).String(),
				Event:   e.Name(),
				Err:     err,
			})
		}),
	)
	return n
}

func (n *node) root() Node {
	current := n.self
	for {
		parent := current.base().parent
		if parent == nil {
			return current
		}
		current = parent
	}
}

// idAttribute resolves the id attribute from the nearest node that
// configures one.
func (n *node) idAttribute() string {
	for current := n.self; current != nil; current = current.base().parent {
		if attr := current.base().cfg.idAttribute; attr != "" {
			return attr
		}
	}
	return DefaultIDAttribute
}

// pathOf returns the names from the root down to n.
func pathOf(n Node) Path {
	var reversed Path
	for current := n; current != nil; current = current.base().parent {
		if current.base().parent == nil {
			break
		}
		reversed = append(reversed, current.base().name)
	}
	path := make(Path, len(reversed))
	for i, segment := range reversed {
		path[len(reversed)-1-i] = segment
	}
	return path
}

// SetOption tunes a single mutation call.
type SetOption func(*setOptions)

type setOptions struct {
	silent bool
	batch  *changeBatch
}

// Silent suppresses every event the call would emit.
func Silent() SetOption {
	return func(o *setOptions) {
		o.silent = true
	}
}

func applySetOptions(opts []SetOption) setOptions {
	o := setOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// changeBatch defers bare "change" events so a multi-path call notifies each
// touched node once.
type changeBatch struct {
	nodes []*node
	seen  map[*node]bool
}

func (b *changeBatch) add(n *node) {
	if b.seen == nil {
		b.seen = map[*node]bool{}
	}
	if b.seen[n] {
		return
	}
	b.seen[n] = true
	b.nodes = append(b.nodes, n)
}

func (b *changeBatch) flush() {
	for _, n := range b.nodes {
		n.emit(events.Event{Type: events.TypeChange, Target: n.self})
	}
	b.nodes = nil
	b.seen = nil
}
