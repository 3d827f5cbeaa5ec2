package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

var ErrInvalidRef = errors.New("state: invalid ref")

// Ref identifies one persisted document tree.
type Ref struct {
	Domain string
	ID     string
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves the plain snapshot of a root document.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Identifier returns the canonical storage key, "<domain>/<id>".
func (r Ref) Identifier() (string, error) {
	domain := strings.TrimSpace(r.Domain)
	id := strings.TrimSpace(r.ID)
	if domain == "" {
		return "", fmt.Errorf("%w: domain is required", ErrInvalidRef)
	}
	if id == "" {
		return "", fmt.Errorf("%w: id is required for domain %q", ErrInvalidRef, domain)
	}
	if strings.Contains(domain, "/") {
		return "", fmt.Errorf("%w: domain %q must not contain '/'", ErrInvalidRef, domain)
	}
	return fmt.Sprintf("%s/%s", domain, id), nil
}

// MergeMeta overlays the non-empty fields of override onto base.
func MergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
