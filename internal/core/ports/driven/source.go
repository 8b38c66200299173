package driven

import (
	"context"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// RecordSource streams raw records from an acquisition collaborator.
// The core does not know or care how the records were fetched; it
// consumes a finite, ordered sequence of them.
type RecordSource interface {
	// Category returns the source category these records belong to.
	Category() string

	// Records returns a channel of raw records and a channel of
	// per-record errors (e.g. a malformed line). Both channels close
	// when the source is exhausted. A per-record error does not stop
	// the stream.
	Records(ctx context.Context) (<-chan domain.RawRecord, <-chan error)

	// Close releases resources.
	Close() error
}
