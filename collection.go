package docmodel

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/goliatone/go-docmodel/pkg/events"
)

// Collection is an ordered list of documents. Elements that are not maps are
// wrapped in pseudo-id documents holding the element under "value"; such a
// collection reports Pseudo and serializes back to the raw elements.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	node
	members []*Document
}

func newCollection(cfg *config) *Collection {
	c := &Collection{}
	c.node = newNode(c, cfg)
	return c
}

// NewCollection builds a root collection from items.
func NewCollection(items []any, opts ...Option) (*Collection, error) {
	cfg := applyOptions(opts)
	c, err := buildCollection(cfg, nil, items, 1, setOptions{})
	if err != nil {
		return nil, fmt.Errorf("docmodel: new collection: %w", err)
	}
	c.isRoot = true
	return c, nil
}

func (c *Collection) Kind() Kind {
	return KindCollection
}

func (c *Collection) Len() int {
	return len(c.members)
}

// At returns the member at index, or nil when out of range.
func (c *Collection) At(index int) *Document {
	if index < 0 || index >= len(c.members) {
		return nil
	}
	return c.members[index]
}

// Members returns a copy of the member list.
func (c *Collection) Members() []*Document {
	out := make([]*Document, len(c.members))
	copy(out, c.members)
	return out
}

// Pseudo reports whether any member is a pseudo-id wrapper.
func (c *Collection) Pseudo() bool {
	for _, m := range c.members {
		if m.wrapped {
			return true
		}
	}
	return false
}

// Member finds a member by key. Wrapped members match on their value,
// others on their id. A string key also matches a wrapped value whose
// printed form equals it when no member matches exactly. A *Document key
// matches itself.
func (c *Collection) Member(key any) *Document {
	if d, ok := key.(*Document); ok {
		if c.indexOf(d) < 0 {
			return nil
		}
		return d
	}
	id := fmt.Sprint(key)
	var loose *Document
	for _, m := range c.members {
		if !m.wrapped {
			if m.ID() == id {
				return m
			}
			continue
		}
		held := m.attrs[wrappedValueKey].plain()
		if reflect.DeepEqual(held, key) {
			return m
		}
		// path segments are strings, so "8080" may name the int 8080
		if _, isString := key.(string); isString && loose == nil && fmt.Sprint(held) == id {
			loose = m
		}
	}
	return loose
}

func (c *Collection) Get(path string) any {
	v, _ := lookupPath(c, ParsePath(path))
	return v
}

func (c *Collection) Lookup(path string) (any, bool) {
	return lookupPath(c, ParsePath(path))
}

func (c *Collection) GetPath(path Path) any {
	v, _ := lookupPath(c, path)
	return v
}

func (c *Collection) LookupPath(path Path) (any, bool) {
	return lookupPath(c, path)
}

func (c *Collection) Has(path string) bool {
	_, ok := lookupPath(c, ParsePath(path))
	return ok
}

// Set assigns value at path. A leading index below Len replaces that member,
// any other index appends.
func (c *Collection) Set(path string, value any, opts ...SetOption) error {
	return setPath(c, ParsePath(path), value, applySetOptions(opts))
}

func (c *Collection) Unset(path string, opts ...SetOption) error {
	return unsetPath(c, ParsePath(path), applySetOptions(opts))
}

// Insert coerces v into a member placed at index and emits "add".
func (c *Collection) Insert(index int, v any, opts ...SetOption) (*Document, error) {
	if index < 0 || index > len(c.members) {
		return nil, fmt.Errorf("%w: insert at %d (len %d)", ErrIndexOutOfRange, index, len(c.members))
	}
	return c.insert(index, v, applySetOptions(opts))
}

// Push appends v and emits "add".
func (c *Collection) Push(v any, opts ...SetOption) (*Document, error) {
	return c.insert(len(c.members), v, applySetOptions(opts))
}

// RemoveAt removes and returns the member at index, or nil when out of
// range.
func (c *Collection) RemoveAt(index int, opts ...SetOption) *Document {
	return c.removeAt(index, applySetOptions(opts))
}

// Remove removes d and reports whether it was a member.
func (c *Collection) Remove(d *Document, opts ...SetOption) bool {
	return c.removeAt(c.indexOf(d), applySetOptions(opts)) != nil
}

// Reset replaces every member with items and emits "reset". On a coercion
// error the collection keeps the members coerced before the failure.
func (c *Collection) Reset(items []any, opts ...SetOption) error {
	so := applySetOptions(opts)
	previous := c.members
	c.members = nil
	for _, m := range previous {
		detach(m)
	}

	var resetErr error
	for i, item := range items {
		member, err := c.coerceMember(c, item, 1, so)
		if err != nil {
			resetErr = fmt.Errorf("docmodel: reset index %d: %w", i, err)
			c.cfg.log(LogEvent{
				Level:   LogLevelWarn,
				Message: "collection reset partially applied",
				Path:    pathOf(c).String(),
				Err:     err,
			})
			break
		}
		c.members = append(c.members, member)
		attach(c, member, strconv.Itoa(len(c.members)-1))
	}

	if !so.silent {
		c.emit(events.Event{Type: events.TypeReset, Target: c, Value: c.Members(), Previous: previous})
	}
	return resetErr
}

// Clone returns a detached copy built from the plain form of c, sharing its
// configuration.
func (c *Collection) Clone() (*Collection, error) {
	clone, err := buildCollection(c.cfg, nil, c.ToJSON(), 1, setOptions{})
	if err != nil {
		return nil, fmt.Errorf("docmodel: clone: %w", err)
	}
	clone.isRoot = true
	return clone, nil
}

// Find returns the first member fn accepts.
func (c *Collection) Find(fn func(*Document) bool) *Document {
	for _, m := range c.members {
		if fn(m) {
			return m
		}
	}
	return nil
}

// Filter returns every member fn accepts.
func (c *Collection) Filter(fn func(*Document) bool) []*Document {
	var out []*Document
	for _, m := range c.members {
		if fn(m) {
			out = append(out, m)
		}
	}
	return out
}

func (c *Collection) indexOf(d *Document) int {
	if d == nil {
		return -1
	}
	for i, m := range c.members {
		if m == d {
			return i
		}
	}
	return -1
}

func (c *Collection) member(segment string) *Document {
	if index, ok := isIndex(segment); ok {
		return c.At(index)
	}
	return c.Member(segment)
}

// coerceMember turns raw into a document suitable for membership, wrapping
// anything that does not coerce to a document. anchor is the attached node
// the member will end up under.
func (c *Collection) coerceMember(anchor Node, raw any, depth int, so setOptions) (*Document, error) {
	v, err := normalize(c, anchor, raw, depth, so)
	if err != nil {
		return nil, err
	}
	if v.kind == KindDocument {
		return v.node.(*Document), nil
	}

	w := newDocument(c.cfg)
	w.attrs[c.idAttribute()] = scalarValue(c.cfg.newID())
	w.attrs[wrappedValueKey] = v
	if v.node != nil {
		attach(w, v.node, wrappedValueKey)
	}
	w.wrapped = true
	w.syntheticID = true
	return w, nil
}

func (c *Collection) insert(index int, raw any, so setOptions) (*Document, error) {
	member, err := c.coerceMember(c, raw, 1, so)
	if err != nil {
		return nil, err
	}
	// coercion may have moved an existing member out of c
	if index > len(c.members) {
		index = len(c.members)
	}
	c.members = append(c.members, nil)
	copy(c.members[index+1:], c.members[index:])
	c.members[index] = member
	attach(c, member, strconv.Itoa(index))
	c.reindex(index + 1)

	if !so.silent {
		c.emit(events.Event{Type: events.TypeAdd, Target: c, Value: member})
	}
	return member, nil
}

func (c *Collection) replaceAt(index int, raw any, so setOptions) error {
	old := c.members[index]
	if d, ok := raw.(*Document); ok && d == old {
		return nil
	}
	member, err := c.coerceMember(c, raw, 1, so)
	if err != nil {
		return err
	}
	index = c.indexOf(old)
	if index < 0 {
		_, err := c.insert(len(c.members), member, so)
		return err
	}
	detach(old)
	c.members[index] = member
	attach(c, member, strconv.Itoa(index))
	c.changed(strconv.Itoa(index), member, old, so)
	return nil
}

func (c *Collection) removeAt(index int, so setOptions) *Document {
	if index < 0 || index >= len(c.members) {
		return nil
	}
	member := c.members[index]
	c.members = append(c.members[:index], c.members[index+1:]...)
	detach(member)
	c.reindex(index)

	if !so.silent {
		c.emit(events.Event{Type: events.TypeRemove, Target: c, Value: member, Previous: index})
	}
	return member
}

// reindex renames members from index on so names track positions.
func (c *Collection) reindex(from int) {
	for i := from; i < len(c.members); i++ {
		c.members[i].name = strconv.Itoa(i)
	}
}
