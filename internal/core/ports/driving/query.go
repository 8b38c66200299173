package driving

import (
	"context"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// TableSummary holds exploratory statistics for one table.
type TableSummary struct {
	Table           string         `json:"table"`
	TotalReviews    int            `json:"total_reviews"`
	RatingMean      float64        `json:"rating_mean"`
	RatingMin       int            `json:"rating_min"`
	RatingMax       int            `json:"rating_max"`
	UniqueReviewers int            `json:"unique_reviewers"`
	UniqueProducts  int            `json:"unique_products"`
	RatingCounts    map[int]int    `json:"rating_counts"`
	TierCounts      map[string]int `json:"tier_counts"`
}

// QueryService provides read-only queries over a populated store.
type QueryService interface {
	// Filter returns the documents in the table matching all
	// conditions, preserving insertion order.
	Filter(ctx context.Context, table string, conditions []domain.Condition) ([]domain.Review, error)

	// Aggregate groups the table by groupField and applies fn over
	// targetField, returning one value per distinct group. Groups
	// without usable values carry the no_data sentinel.
	Aggregate(ctx context.Context, table, groupField string, fn domain.AggregateFunc, targetField string) (domain.AggregateResult, error)

	// Summary computes exploratory statistics for the table.
	Summary(ctx context.Context, table string) (*TableSummary, error)
}

// ExportService extracts representative subsets of the store.
type ExportService interface {
	// Export writes up to the configured per-category count of
	// documents from each category table to path, as a plain JSON
	// array independent of the store format.
	Export(ctx context.Context, path string) (int, error)
}
