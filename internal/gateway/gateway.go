// Package gateway defines the thin typed surface over the remote backend:
// row operations with join expansion on the relational side, and blob
// operations on the object-storage side. The journal core depends only on
// these interfaces; implementations live in subpackages.
package gateway

import (
	"context"
	"errors"
)

// ErrNoRow is returned by implementations when a mutation addressed a row
// that does not exist. Callers match it with errors.Is.
var ErrNoRow = errors.New("no such row")

// Row is one joined result row as decoded from the backend's JSON document.
// Related rows may appear under their table name as an array, a bare object,
// or be absent entirely; the journal normalizer owns that reconciliation.
type Row = map[string]any

// Join describes one related table to expand into the parent row.
type Join struct {
	// Table is the related table name; the result lands under this key.
	Table string

	// On is the column of the related table referencing the parent id.
	On string

	// Columns restricts the embedded columns. Empty means all.
	Columns []string

	// Single embeds an object (or null) instead of an array.
	Single bool
}

// Filter is an equality predicate on one column.
type Filter struct {
	Column string
	Value  any
}

// SelectQuery describes a select with optional join expansion.
type SelectQuery struct {
	Table      string
	Joins      []Join
	Filter     *Filter
	OrderBy    string
	Descending bool
}

// Rows is the relational half of the remote data gateway.
type Rows interface {
	// Select runs a query with join expansion and returns the raw rows.
	Select(ctx context.Context, q SelectQuery) ([]Row, error)

	// Insert adds one row and returns it as stored, including the
	// server-assigned id and timestamps.
	Insert(ctx context.Context, table string, fields map[string]any) (Row, error)

	// Update modifies one row by id.
	Update(ctx context.Context, table string, id int64, fields map[string]any) error

	// Delete removes one row by id.
	Delete(ctx context.Context, table string, id int64) error
}

// Blobs is the object-storage half of the remote data gateway.
type Blobs interface {
	// Upload stores data under bucket/key with the given MIME type.
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// Remove deletes the object at bucket/key.
	Remove(ctx context.Context, bucket, key string) error

	// PublicURL returns the publicly resolvable URL for bucket/key.
	// It performs no network call.
	PublicURL(bucket, key string) string
}
