package docmodel

// ToJSON returns the plain form of d. Synthetic id attributes are omitted
// and child nodes are rendered recursively into fresh maps and slices.
func (d *Document) ToJSON() map[string]any {
	out := make(map[string]any, len(d.attrs))
	idAttr := d.idAttribute()
	for key, v := range d.attrs {
		if d.syntheticID && key == idAttr {
			continue
		}
		out[key] = v.plain()
	}
	return out
}

func (d *Document) Plain() any {
	return d.ToJSON()
}

// ToJSON returns the members as plain values, unwrapping pseudo-id members
// back to their original element.
func (c *Collection) ToJSON() []any {
	out := make([]any, len(c.members))
	for i, m := range c.members {
		if m.wrapped {
			out[i] = m.attrs[wrappedValueKey].plain()
			continue
		}
		out[i] = m.ToJSON()
	}
	return out
}

func (c *Collection) Plain() any {
	return c.ToJSON()
}

// snapshot is the plain form including synthetic ids, used as an evaluation
// environment for members.
func (d *Document) snapshot() map[string]any {
	out := make(map[string]any, len(d.attrs))
	for key, v := range d.attrs {
		out[key] = v.plain()
	}
	return out
}

func plainOf(v any) any {
	if n, ok := v.(Node); ok {
		return n.Plain()
	}
	return v
}
