package driving

import (
	"context"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
)

// PipelineService rebuilds the document store from raw record sources.
type PipelineService interface {
	// Build runs the full batch: validate, clean, dedup, enrich and
	// store every record from every source, then writes the metadata
	// document and persists the store. The store is reset first; a
	// build is always a whole rebuild, never incremental.
	//
	// Per-record failures are counted in the report and never abort
	// the batch. Store-level failures abort and are returned.
	Build(ctx context.Context, sources []driven.RecordSource) (*domain.BuildReport, error)
}
