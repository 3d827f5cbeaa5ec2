package docmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-docmodel/pkg/events"
)

// Path is a parsed dotted path. Segments are attribute keys or collection
// indexes.
type Path = events.Path

// ParsePath splits a dotted path. The empty string yields an empty path,
// which addresses the node itself.
func ParsePath(path string) Path {
	if path == "" {
		return nil
	}
	return Path(strings.Split(path, "."))
}

// isIndex reports whether segment is a non-negative base-10 integer.
func isIndex(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return index, true
}

// lookupPath walks path from start. Absence is reported as soon as a step is
// missing or lands on a scalar.
func lookupPath(start Node, path Path) (any, bool) {
	var current any = start
	for _, segment := range path {
		switch typed := current.(type) {
		case *Document:
			v, ok := typed.attrs[segment]
			if !ok {
				return nil, false
			}
			current = v.get()
		case *Collection:
			member := typed.member(segment)
			if member == nil {
				return nil, false
			}
			current = member
		default:
			return nil, false
		}
	}
	return current, true
}

func validatePath(op string, start Node, path Path) error {
	if len(path) == 0 {
		return pathError(op, path, "", fmt.Errorf("%w: empty path", ErrInvalidPath))
	}
	if limit := start.base().cfg.maxDepth; len(path) > limit {
		return pathError(op, path, "", fmt.Errorf("%w: %d segments (limit %d)", ErrMaxDepth, len(path), limit))
	}
	for _, segment := range path {
		if segment == "" {
			return pathError(op, path, segment, fmt.Errorf("%w: empty segment", ErrInvalidPath))
		}
	}
	return nil
}

// setPath resolves every intermediate segment, creating containers where
// needed, then assigns raw at the final segment.
func setPath(start Node, path Path, raw any, so setOptions) error {
	if err := validatePath("set", start, path); err != nil {
		return err
	}
	current := start
	last := len(path) - 1
	for i, segment := range path[:last] {
		next, err := step(current, segment, path[i+1], so)
		if err != nil {
			return pathError("set", path, segment, err)
		}
		current = next
	}
	if err := assign(current, path[last], raw, so); err != nil {
		return pathError("set", path, path[last], err)
	}
	return nil
}

// step returns the container at segment under current, creating it when it
// is absent or holds a scalar. next decides between a collection and a
// document for new containers.
func step(current Node, segment, next string, so setOptions) (Node, error) {
	switch typed := current.(type) {
	case *Document:
		if v, ok := typed.attrs[segment]; ok && v.kind != KindScalar {
			return v.node, nil
		}
		var child Node
		if _, ok := isIndex(next); ok {
			child = newCollection(typed.cfg)
		} else {
			child = newDocument(typed.cfg)
		}
		if err := typed.setKey(segment, child, so); err != nil {
			return nil, err
		}
		return child, nil
	case *Collection:
		if index, ok := isIndex(segment); ok {
			if member := typed.At(index); member != nil {
				return member, nil
			}
			return typed.insert(typed.Len(), newDocument(typed.cfg), so)
		}
		if member := typed.Member(segment); member != nil {
			return member, nil
		}
		return nil, fmt.Errorf("%w: member %q", ErrNotFound, segment)
	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrInvalidPath, current)
	}
}

func assign(current Node, segment string, raw any, so setOptions) error {
	switch typed := current.(type) {
	case *Document:
		return typed.setKey(segment, raw, so)
	case *Collection:
		if index, ok := isIndex(segment); ok {
			if index < typed.Len() {
				return typed.replaceAt(index, raw, so)
			}
			_, err := typed.insert(typed.Len(), raw, so)
			return err
		}
		index := typed.indexOf(typed.Member(segment))
		if index < 0 {
			return fmt.Errorf("%w: member %q", ErrNotFound, segment)
		}
		return typed.replaceAt(index, raw, so)
	default:
		return fmt.Errorf("%w: unsupported node %T", ErrInvalidPath, current)
	}
}

// unsetPath removes the attribute or member at path. A missing target is
// not an error.
func unsetPath(start Node, path Path, so setOptions) error {
	if err := validatePath("unset", start, path); err != nil {
		return err
	}
	last := len(path) - 1
	holder, ok := lookupPath(start, path[:last])
	if !ok {
		return nil
	}
	segment := path[last]
	switch typed := holder.(type) {
	case *Document:
		typed.removeKey(segment, so)
	case *Collection:
		if index, ok := isIndex(segment); ok {
			typed.removeAt(index, so)
			return nil
		}
		typed.removeAt(typed.indexOf(typed.Member(segment)), so)
	}
	return nil
}
