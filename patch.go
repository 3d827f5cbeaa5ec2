package docmodel

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyPatch applies an RFC 6902 JSON Patch to d. The patched result is
// diffed against the tree so only attributes that actually changed are set
// or removed, and existing child nodes keep their identity.
func (d *Document) ApplyPatch(patch []byte, opts ...SetOption) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("docmodel: decode patch: %w", err)
	}
	current, err := json.Marshal(d.ToJSON())
	if err != nil {
		return fmt.Errorf("docmodel: encode document: %w", err)
	}
	patched, err := ops.Apply(current)
	if err != nil {
		return fmt.Errorf("docmodel: apply patch: %w", err)
	}
	return d.applyPatched(patched, applySetOptions(opts))
}

// ApplyMergePatch applies an RFC 7396 JSON Merge Patch to d.
func (d *Document) ApplyMergePatch(patch []byte, opts ...SetOption) error {
	current, err := json.Marshal(d.ToJSON())
	if err != nil {
		return fmt.Errorf("docmodel: encode document: %w", err)
	}
	patched, err := jsonpatch.MergePatch(current, patch)
	if err != nil {
		return fmt.Errorf("docmodel: apply merge patch: %w", err)
	}
	return d.applyPatched(patched, applySetOptions(opts))
}

func (d *Document) applyPatched(patched []byte, so setOptions) error {
	var next map[string]any
	if err := json.Unmarshal(patched, &next); err != nil {
		return fmt.Errorf("docmodel: decode patched document: %w", err)
	}
	batch := &changeBatch{}
	so.batch = batch
	err := d.reconcile(next, so)
	if !so.silent {
		batch.flush()
	}
	return err
}

// reconcile makes d's plain form equal next. Keys missing from next are
// removed, except a synthetic id which never appears in plain form.
func (d *Document) reconcile(next map[string]any, so setOptions) error {
	idAttr := d.idAttribute()
	for _, key := range d.Keys() {
		if _, ok := next[key]; ok {
			continue
		}
		if d.syntheticID && key == idAttr {
			continue
		}
		d.removeKey(key, so)
	}
	for _, key := range sortedKeys(next) {
		want := next[key]
		current, ok := d.attrs[key]
		if ok {
			if child, isDoc := current.node.(*Document); isDoc && !child.wrapped {
				if attrs, isMap := want.(map[string]any); isMap {
					if err := child.reconcile(attrs, so); err != nil {
						return err
					}
					continue
				}
			}
			if jsonEqual(current.plain(), want) {
				continue
			}
		}
		if err := d.setKey(key, want, so); err != nil {
			return pathError("patch", Path{key}, key, err)
		}
	}
	return nil
}

// jsonEqual compares values by their JSON encoding so numbers decoded as
// float64 match the ints they were encoded from.
func jsonEqual(a, b any) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
