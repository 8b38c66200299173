package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driving"
	"github.com/reviewlens/reviewlens-cli/internal/logger"
)

// Ensure Sampler implements the interface.
var _ driving.ExportService = (*Sampler)(nil)

// Sampler extracts a representative subset of the store: up to the
// configured per-category count of documents from each category
// table, insertion order preserved. The output is a plain JSON array
// of documents, independent of the store snapshot format.
type Sampler struct {
	cfg   domain.Config
	store driven.ReviewStore
}

// NewSampler creates a sampler over the given store.
func NewSampler(cfg domain.Config, store driven.ReviewStore) *Sampler {
	return &Sampler{cfg: cfg, store: store}
}

// Export writes the sample to path and returns the document count.
// The write goes to a temp file first and is renamed into place, so a
// failed export never leaves a partial file behind.
func (s *Sampler) Export(ctx context.Context, path string) (int, error) {
	logger.Section("Sample Export")

	sample := make([]domain.Review, 0, s.cfg.SamplePerCategory*len(s.cfg.Categories))
	for _, category := range s.cfg.Categories {
		table, ok := s.cfg.TableFor(category)
		if !ok {
			continue
		}

		reviews, err := s.store.GetAll(ctx, table)
		if err != nil {
			return 0, fmt.Errorf("read table %s: %w", table, err)
		}

		n := len(reviews)
		if s.cfg.SamplePerCategory > 0 && n > s.cfg.SamplePerCategory {
			n = s.cfg.SamplePerCategory
		}
		sample = append(sample, reviews[:n]...)
		logger.Debug("%s: sampled %d of %d", category, n, len(reviews))
	}

	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal sample: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sample-*.json")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("write sample: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close sample: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("replace sample file: %w", err)
	}

	logger.Info("Exported %d documents to %s", len(sample), path)
	return len(sample), nil
}
