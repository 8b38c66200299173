package driven

import (
	"context"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// ReviewStore persists review documents organised into named tables.
//
// Implementations must uphold the dual-write invariant: inserting into
// a category table also appends the document to the master "reviews"
// table, and a failure of either half leaves neither visible. Tables
// are append-only; documents are never mutated after insert.
type ReviewStore interface {
	// CreateTable registers a new, empty table.
	// Returns domain.ErrTableExists if the name is taken.
	CreateTable(ctx context.Context, name string) error

	// Insert appends a document to the named category table and to
	// the master table. Returns domain.ErrTableNotFound for unknown
	// tables and domain.ErrDuplicateKey when the document's
	// (reviewer_id, product_id) pair is already present.
	Insert(ctx context.Context, table string, review domain.Review) error

	// GetAll returns every document in the table in insertion order.
	GetAll(ctx context.Context, table string) ([]domain.Review, error)

	// Query returns the documents matching all conditions, in
	// insertion order.
	Query(ctx context.Context, table string, conditions []domain.Condition) ([]domain.Review, error)

	// Tables lists all table names, master and metadata included.
	Tables(ctx context.Context) ([]string, error)

	// PutMetadata overwrites the single dataset-level metadata document.
	PutMetadata(ctx context.Context, meta domain.Metadata) error

	// GetMetadata returns the metadata document, or domain.ErrNoMetadata
	// if the store has not been built yet.
	GetMetadata(ctx context.Context) (*domain.Metadata, error)

	// Persist writes the full in-memory state durably. For the JSON
	// backend this is a whole-file snapshot replaced atomically.
	Persist(ctx context.Context) error

	// Load restores state from durable storage. Returns
	// domain.ErrCorruptStore when the persisted shape is invalid.
	Load(ctx context.Context) error

	// Reset drops all tables and metadata, for a full rebuild.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
