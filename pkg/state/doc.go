// Package state defines the persistence contract used when a document tree is
// saved or fetched.
//
// Responsibilities:
//   - Store[T] only loads/saves a single plain snapshot for a single Ref.
//   - The core docmodel package never talks to storage directly; Save on any
//     node walks to the root and hands the root's plain snapshot to the
//     configured Store.
//
// Data flow:
//
//	node.Save -> root -> root.ToJSON() -> Store.Save(ref, snapshot, meta)
//
// Concurrency control:
//
//	Meta.ETag returned by Save is kept on the root and sent back on the next
//	Save. Stores are expected to reject a mismatching ETag with
//	ErrETagMismatch (MemoryStore does).
//
// Deterministic keys:
//
//	Ref.Identifier() renders "<domain>/<id>". When a root is saved without an
//	explicit Ref.ID the root document's identity is used.
package state
