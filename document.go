package docmodel

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/goliatone/go-docmodel/layering"
)

// wrappedValueKey holds the original element inside a pseudo-id wrapper.
const wrappedValueKey = "value"

// Document is a keyed attribute node. Attributes holding maps or slices are
// stored as child documents and collections that bubble their events here.
//
// A Document is not safe for concurrent use.
type Document struct {
	node
	attrs map[string]value
	// cid identifies the document when it has no id attribute.
	cid         string
	wrapped     bool
	syntheticID bool
}

func newDocument(cfg *config) *Document {
	d := &Document{attrs: map[string]value{}}
	d.node = newNode(d, cfg)
	d.cid = cfg.newID()
	return d
}

// New builds a root document from attrs. Nested maps and slices become child
// nodes; WithDefaults values fill keys attrs leaves unset.
func New(attrs map[string]any, opts ...Option) (*Document, error) {
	cfg := applyOptions(opts)
	if cfg.defaults != nil {
		attrs = layering.MergeLayers(attrs, cfg.defaults)
	}
	d, err := buildDocument(cfg, nil, attrs, 1, setOptions{})
	if err != nil {
		return nil, fmt.Errorf("docmodel: new document: %w", err)
	}
	d.isRoot = true
	d.recordLifecycle(context.Background(), lifecycleCreated)
	return d, nil
}

// MustNew is like New but panics on error.
func MustNew(attrs map[string]any, opts ...Option) *Document {
	d, err := New(attrs, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Document) Kind() Kind {
	return KindDocument
}

// ID returns the id attribute rendered as a string, or the synthetic id when
// the attribute is absent.
func (d *Document) ID() string {
	if v, ok := d.attrs[d.idAttribute()]; ok && v.kind == KindScalar && v.scalar != nil {
		return fmt.Sprint(v.scalar)
	}
	return d.cid
}

// Wrapped reports whether d is a pseudo-id wrapper around a collection
// element.
func (d *Document) Wrapped() bool {
	return d.wrapped
}

// Get returns the value at the dotted path, or nil when absent. Child nodes
// are returned as *Document or *Collection.
func (d *Document) Get(path string) any {
	v, _ := lookupPath(d, ParsePath(path))
	return v
}

// Lookup is like Get but reports whether the path resolved.
func (d *Document) Lookup(path string) (any, bool) {
	return lookupPath(d, ParsePath(path))
}

func (d *Document) GetPath(path Path) any {
	v, _ := lookupPath(d, path)
	return v
}

func (d *Document) LookupPath(path Path) (any, bool) {
	return lookupPath(d, path)
}

func (d *Document) Has(path string) bool {
	_, ok := lookupPath(d, ParsePath(path))
	return ok
}

// Set assigns value at the dotted path, creating missing intermediate
// documents and collections.
func (d *Document) Set(path string, value any, opts ...SetOption) error {
	return setPath(d, ParsePath(path), value, applySetOptions(opts))
}

// SetPath is Set with a pre-split path.
func (d *Document) SetPath(path Path, value any, opts ...SetOption) error {
	return setPath(d, path, value, applySetOptions(opts))
}

// SetMany applies every path in sorted order. Failed paths do not stop or
// roll back the others; their errors are joined. Each touched node emits
// one bare change after all paths are applied.
func (d *Document) SetMany(values map[string]any, opts ...SetOption) error {
	so := applySetOptions(opts)
	batch := &changeBatch{}
	so.batch = batch

	var errs []error
	for _, path := range sortedKeys(values) {
		if err := setPath(d, ParsePath(path), values[path], so); err != nil {
			errs = append(errs, err)
		}
	}
	if !so.silent {
		batch.flush()
	}
	return errors.Join(errs...)
}

// mergeKeys assigns each top-level key of attrs without path parsing and
// batches bare change events.
func (d *Document) mergeKeys(attrs map[string]any, so setOptions) error {
	batch := &changeBatch{}
	so.batch = batch

	var errs []error
	for _, key := range sortedKeys(attrs) {
		if err := d.setKey(key, attrs[key], so); err != nil {
			errs = append(errs, pathError("set", Path{key}, key, err))
		}
	}
	if !so.silent {
		batch.flush()
	}
	return errors.Join(errs...)
}

// Unset removes the attribute or collection member at path. Missing paths
// are ignored.
func (d *Document) Unset(path string, opts ...SetOption) error {
	return unsetPath(d, ParsePath(path), applySetOptions(opts))
}

// Keys returns the attribute keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.attrs))
	for key := range d.attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a detached copy built from the plain form of d, sharing its
// configuration.
func (d *Document) Clone() (*Document, error) {
	clone, err := buildDocument(d.cfg, nil, d.ToJSON(), 1, setOptions{})
	if err != nil {
		return nil, fmt.Errorf("docmodel: clone: %w", err)
	}
	clone.isRoot = true
	return clone, nil
}

func (d *Document) setKey(key string, raw any, so setOptions) error {
	if old, had := d.attrs[key]; had {
		if n, ok := raw.(Node); ok && old.node == n {
			return nil
		}
		if old.kind == KindScalar && reflect.DeepEqual(old.scalar, raw) {
			return nil
		}
	}

	v, err := normalize(d, d, raw, 1, so)
	if err != nil {
		return err
	}

	old, had := d.attrs[key]
	var previous any
	if had {
		previous = old.get()
		if old.node != nil {
			detach(old.node)
		}
	}
	d.attrs[key] = v
	if v.node != nil {
		attach(d, v.node, key)
	}
	if key == d.idAttribute() {
		d.syntheticID = false
	}
	d.changed(key, v.get(), previous, so)
	return nil
}

func (d *Document) removeKey(key string, so setOptions) {
	old, ok := d.attrs[key]
	if !ok {
		return
	}
	delete(d.attrs, key)
	if old.node != nil {
		detach(old.node)
	}
	if key == d.idAttribute() {
		d.syntheticID = false
	}
	d.changed(key, nil, old.get(), so)
}
