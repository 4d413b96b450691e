// Package catalog defines the document store contract the structure engine
// consumes, plus an in-memory implementation and store decorators (cache,
// circuit breaker).
//
// Every implementation must honour the same error contract:
//   - Get on a missing id returns an error wrapping model.ErrNotFound
//   - CreateIfAbsent on an existing id returns an error wrapping
//     model.ErrDuplicateKey and writes nothing
//   - Delete on a missing id is not an error
//   - connectivity / permission failures wrap model.ErrTransport
package catalog

import (
	"context"

	"github.com/facussc24/2026-sub001/internal/model"
)

// FieldComponentIDs is the reverse-index field on product documents.
const FieldComponentIDs = "component_ids"

// ReverseQuery asks for documents whose array Field contains Value.
type ReverseQuery struct {
	Collection model.Collection
	Field      string
	Value      string
	// ExcludeID drops one document (typically the product being deleted).
	ExcludeID string
	// Limit caps the result; <= 0 means no cap.
	Limit int
}

// Store is the abstract document store.
type Store interface {
	// Get decodes the document into dst (a pointer to a record struct).
	Get(ctx context.Context, coll model.Collection, id string, dst any) error
	// QueryReverseIndex returns the ids of matching documents.
	QueryReverseIndex(ctx context.Context, q ReverseQuery) ([]string, error)
	Delete(ctx context.Context, coll model.Collection, id string) error
	// CreateIfAbsent writes rec under id only if the id is free.
	CreateIfAbsent(ctx context.Context, coll model.Collection, id string, rec any) error
	// Write stores rec under id. With merge, top-level fields of rec replace
	// those of the existing document and other fields are kept; without it
	// the document is replaced.
	Write(ctx context.Context, coll model.Collection, id string, rec any, merge bool) error
}

// StorageIDSetter is implemented by records that carry their store key
// outside the document body.
type StorageIDSetter interface {
	SetStorageID(id string)
}

// Indexed is implemented by records exposing reverse-index values, so
// drivers can mirror them into a natively indexed column.
type Indexed interface {
	IndexValues() []string
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

func stampID(dst any, id string) {
	if s, ok := dst.(StorageIDSetter); ok {
		s.SetStorageID(id)
	}
}

// StampID sets the storage id on dst when it supports it. Drivers outside
// this package call it after decoding.
func StampID(dst any, id string) { stampID(dst, id) }

type freshReadKey struct{}

// FreshRead marks ctx so caching decorators read from the underlying store.
// Use it for reads that decide a write, where a stale hit is not acceptable.
func FreshRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

// IsFreshRead reports whether ctx was marked with FreshRead.
func IsFreshRead(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshReadKey{}).(bool)
	return fresh
}
