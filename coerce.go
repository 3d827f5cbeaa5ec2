package docmodel

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/goliatone/go-docmodel/pkg/events"
)

// normalize turns raw into a stored value owned by owner. Existing nodes are
// reused and detached from wherever they currently live; slices become
// collections, string-keyed maps become documents, everything else is kept
// as a scalar. anchor is the attached node the result will end up under; it
// is nil while building a new root.
func normalize(owner, anchor Node, raw any, depth int, so setOptions) (value, error) {
	cfg := owner.base().cfg
	if depth > cfg.maxDepth {
		return value{}, fmt.Errorf("%w: value nesting exceeds %d", ErrMaxDepth, cfg.maxDepth)
	}

	switch typed := raw.(type) {
	case nil:
		return scalarValue(nil), nil
	case *Document:
		if typed == nil {
			return scalarValue(nil), nil
		}
		if err := adopt(owner, anchor, typed, so); err != nil {
			return value{}, err
		}
		return nodeValue(typed), nil
	case *Collection:
		if typed == nil {
			return scalarValue(nil), nil
		}
		if err := adopt(owner, anchor, typed, so); err != nil {
			return value{}, err
		}
		return nodeValue(typed), nil
	case []byte:
		return scalarValue(typed), nil
	}

	if attrs, ok := plainMap(raw); ok {
		d, err := buildDocument(cfg, anchor, attrs, depth+1, so)
		if err != nil {
			return value{}, err
		}
		return nodeValue(d), nil
	}
	if items, ok := plainSlice(raw); ok {
		c, err := buildCollection(cfg, anchor, items, depth+1, so)
		if err != nil {
			return value{}, err
		}
		return nodeValue(c), nil
	}
	return scalarValue(raw), nil
}

// adopt prepares an existing node for placement under owner. A node nested in
// a plain value is checked against anchor too, since owner is not attached
// yet.
func adopt(owner, anchor, n Node, so setOptions) error {
	if isAncestorOrSelf(n, owner) || (anchor != nil && isAncestorOrSelf(n, anchor)) {
		return ErrCycle
	}
	unlink(n, so)
	return nil
}

func isAncestorOrSelf(candidate, n Node) bool {
	for current := n; current != nil; current = current.base().parent {
		if current == candidate {
			return true
		}
	}
	return false
}

func buildDocument(cfg *config, anchor Node, attrs map[string]any, depth int, so setOptions) (*Document, error) {
	d := newDocument(cfg)
	for _, key := range sortedKeys(attrs) {
		v, err := normalize(d, anchor, attrs[key], depth, so)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		d.attrs[key] = v
		if v.node != nil {
			attach(d, v.node, key)
		}
	}
	return d, nil
}

func buildCollection(cfg *config, anchor Node, items []any, depth int, so setOptions) (*Collection, error) {
	c := newCollection(cfg)
	for i, item := range items {
		member, err := c.coerceMember(anchor, item, depth, so)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		c.members = append(c.members, member)
		attach(c, member, strconv.Itoa(len(c.members)-1))
	}
	return c, nil
}

// attach makes parent the owner of child under name and starts relaying the
// child's events to it.
func attach(parent, child Node, name string) {
	b := child.base()
	b.parent = parent
	b.name = name
	b.link = b.bus.Relay(relay(b))
}

func detach(child Node) {
	b := child.base()
	b.bus.Off(b.link)
	b.link = events.Subscription{}
	b.parent = nil
	b.name = ""
}

// unlink removes n from its current parent through the parent's own removal
// path so listeners there observe it.
func unlink(n Node, so setOptions) {
	switch parent := n.base().parent.(type) {
	case *Document:
		parent.removeKey(n.base().name, so)
	case *Collection:
		if member, ok := n.(*Document); ok {
			parent.removeAt(parent.indexOf(member), so)
		}
	}
}

// relay re-triggers qualified events on the parent with the child's current
// name prepended. A bare change stays local to the node that changed.
func relay(child *node) events.Handler {
	return func(e events.Event) {
		if e.Type == events.TypeChange && !e.Qualified() {
			return
		}
		parent := child.parent
		if parent == nil {
			return
		}
		parent.base().emit(e.Under(child.name))
	}
}

func plainMap(raw any) (map[string]any, bool) {
	if attrs, ok := raw.(map[string]any); ok {
		return attrs, attrs != nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	attrs := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		attrs[iter.Key().String()] = iter.Value().Interface()
	}
	return attrs, true
}

func plainSlice(raw any) ([]any, bool) {
	if items, ok := raw.([]any); ok {
		return items, items != nil
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
