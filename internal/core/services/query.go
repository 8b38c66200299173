package services

import (
	"context"
	"fmt"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driving"
	"github.com/reviewlens/reviewlens-cli/internal/logger"
)

// Ensure QueryEngine implements the interface.
var _ driving.QueryService = (*QueryEngine)(nil)

// QueryEngine executes filter and aggregate queries against a
// populated store. It only reads; the store owns the documents.
type QueryEngine struct {
	cfg   domain.Config
	store driven.ReviewStore
}

// NewQueryEngine creates a query engine over the given store.
func NewQueryEngine(cfg domain.Config, store driven.ReviewStore) *QueryEngine {
	return &QueryEngine{cfg: cfg, store: store}
}

// Filter returns the documents matching all conditions, in insertion
// order.
func (q *QueryEngine) Filter(ctx context.Context, table string, conditions []domain.Condition) ([]domain.Review, error) {
	logger.Section("Filter Query")
	logger.Debug("table=%s conditions=%d", table, len(conditions))

	results, err := q.store.Query(ctx, table, conditions)
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", table, err)
	}

	logger.Debug("%d documents matched", len(results))
	return results, nil
}

// Aggregate groups the table by groupField and applies fn over
// targetField. Each distinct group value maps to its aggregate; a
// group with no usable target values carries the no_data sentinel.
func (q *QueryEngine) Aggregate(
	ctx context.Context,
	table, groupField string,
	fn domain.AggregateFunc,
	targetField string,
) (domain.AggregateResult, error) {
	logger.Section("Aggregate Query")
	logger.Debug("table=%s group=%s fn=%s target=%s", table, groupField, fn, targetField)

	reviews, err := q.store.GetAll(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}

	groups := make(map[string][]float64)
	counts := make(map[string]int)

	for i := range reviews {
		groupVal, ok := reviews[i].Field(groupField)
		if !ok {
			continue
		}
		key := domain.ValueString(groupVal)

		target, present := reviews[i].Field(targetField)
		if !present {
			// The group exists even when no usable target value does;
			// the caller gets a no_data entry rather than a silent gap.
			if _, known := groups[key]; !known {
				groups[key] = nil
			}
			continue
		}

		switch fn {
		case domain.AggCount:
			counts[key]++
			if _, known := groups[key]; !known {
				groups[key] = nil
			}
		case domain.AggAverage:
			f, numeric := domain.Numeric(target)
			if !numeric {
				if _, known := groups[key]; !known {
					groups[key] = nil
				}
				continue
			}
			groups[key] = append(groups[key], f)
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAggregate, fn)
		}
	}

	result := make(domain.AggregateResult, len(groups))
	for key, values := range groups {
		switch fn {
		case domain.AggCount:
			result[key] = domain.AggregateValue{Value: float64(counts[key])}
		case domain.AggAverage:
			if len(values) == 0 {
				result[key] = domain.AggregateValue{NoData: true}
				continue
			}
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			result[key] = domain.AggregateValue{Value: sum / float64(len(values))}
		}
	}

	logger.Debug("%d groups", len(result))
	return result, nil
}

// Summary computes exploratory statistics for one table.
func (q *QueryEngine) Summary(ctx context.Context, table string) (*driving.TableSummary, error) {
	reviews, err := q.store.GetAll(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}

	summary := &driving.TableSummary{
		Table:        table,
		TotalReviews: len(reviews),
		RatingCounts: make(map[int]int),
		TierCounts:   make(map[string]int),
	}
	if len(reviews) == 0 {
		return summary, nil
	}

	reviewers := make(map[string]struct{})
	products := make(map[string]struct{})
	sum := 0
	summary.RatingMin = reviews[0].Rating
	summary.RatingMax = reviews[0].Rating

	for i := range reviews {
		r := &reviews[i]
		reviewers[r.ReviewerID] = struct{}{}
		products[r.ProductID] = struct{}{}
		sum += r.Rating
		summary.RatingCounts[r.Rating]++
		summary.TierCounts[r.RatingTier]++
		if r.Rating < summary.RatingMin {
			summary.RatingMin = r.Rating
		}
		if r.Rating > summary.RatingMax {
			summary.RatingMax = r.Rating
		}
	}

	summary.RatingMean = float64(sum) / float64(len(reviews))
	summary.UniqueReviewers = len(reviewers)
	summary.UniqueProducts = len(products)
	return summary, nil
}
