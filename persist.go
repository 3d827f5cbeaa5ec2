package docmodel

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docmodel/pkg/events"
	"github.com/goliatone/go-docmodel/pkg/state"
)

// Save persists the plain form of the root of d's tree.
func (d *Document) Save(ctx context.Context) (state.Meta, error) {
	return save(ctx, d)
}

// Fetch reloads the root of d's tree from its store.
func (d *Document) Fetch(ctx context.Context) error {
	return fetch(ctx, d)
}

// Save persists the plain form of the root of c's tree.
func (c *Collection) Save(ctx context.Context) (state.Meta, error) {
	return save(ctx, c)
}

// Fetch reloads the root of c's tree from its store.
func (c *Collection) Fetch(ctx context.Context) error {
	return fetch(ctx, c)
}

// Meta returns the storage metadata of the last save or fetch of the root.
func (n *node) Meta() state.Meta {
	return n.root().base().meta
}

func storeRef(root Node) (state.Store[any], state.Ref, error) {
	cfg := root.base().cfg
	if cfg.store == nil {
		return nil, state.Ref{}, ErrNoStore
	}
	ref := cfg.ref
	if ref.ID == "" {
		ref.ID = rootID(root)
	}
	return cfg.store, ref, nil
}

func save(ctx context.Context, n Node) (state.Meta, error) {
	root := n.Root()
	rb := root.base()
	store, ref, err := storeRef(root)
	if err != nil {
		return state.Meta{}, err
	}
	meta, err := store.Save(ctx, ref, root.Plain(), rb.meta)
	if err != nil {
		return meta, fmt.Errorf("docmodel: save %s/%s: %w", ref.Domain, ref.ID, err)
	}
	rb.meta = meta
	rb.emit(events.Event{Type: events.TypeSync, Target: root, Value: meta})
	rb.recordLifecycle(ctx, lifecycleSaved)
	return meta, nil
}

// fetch applies the stored snapshot to the root. Documents merge the loaded
// keys without pruning; collections are reset.
func fetch(ctx context.Context, n Node) error {
	root := n.Root()
	rb := root.base()
	store, ref, err := storeRef(root)
	if err != nil {
		return err
	}
	snapshot, meta, ok, err := store.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("docmodel: fetch %s/%s: %w", ref.Domain, ref.ID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, ref.Domain, ref.ID)
	}

	switch typed := root.(type) {
	case *Document:
		attrs, ok := plainMap(snapshot)
		if !ok {
			return fmt.Errorf("docmodel: fetch %s/%s: snapshot is %T, want a map", ref.Domain, ref.ID, snapshot)
		}
		if err := typed.mergeKeys(attrs, setOptions{}); err != nil {
			return fmt.Errorf("docmodel: fetch %s/%s: %w", ref.Domain, ref.ID, err)
		}
	case *Collection:
		items, ok := plainSlice(snapshot)
		if !ok {
			return fmt.Errorf("docmodel: fetch %s/%s: snapshot is %T, want a list", ref.Domain, ref.ID, snapshot)
		}
		if err := typed.Reset(items); err != nil {
			return fmt.Errorf("docmodel: fetch %s/%s: %w", ref.Domain, ref.ID, err)
		}
	}

	rb.meta = meta
	rb.emit(events.Event{Type: events.TypeSync, Target: root, Value: meta})
	rb.recordLifecycle(ctx, lifecycleFetched)
	return nil
}
