package services

import (
	"fmt"
	"time"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// isoDate is the layout for derived timestamps.
const isoDate = "2006-01-02"

// metaFields are carried into Review.Meta verbatim for traceability.
var metaFields = []string{
	domain.FieldReviewerName,
	domain.FieldHelpful,
	domain.FieldSummary,
	domain.FieldReviewTime,
}

// Enricher derives the document fields that do not exist on the raw
// record: the ISO timestamp, the commercial segment and the rating
// tier. It never mutates its input.
type Enricher struct {
	cfg domain.Config
}

// NewEnricher creates an enricher with the given mapping and
// thresholds.
func NewEnricher(cfg domain.Config) *Enricher {
	return &Enricher{cfg: cfg}
}

// Enrich produces the canonical Review document from a validated,
// cleaned, deduplicated record. A negative or non-numeric epoch
// timestamp yields domain.ErrTimestampConversion; the pipeline drops
// the record and continues.
func (e *Enricher) Enrich(rec domain.RawRecord, category string) (*domain.Review, error) {
	epoch, ok := domain.Numeric(rec[domain.FieldUnixTime])
	if !ok {
		return nil, fmt.Errorf("%w: %s is not numeric", domain.ErrTimestampConversion, domain.FieldUnixTime)
	}
	if epoch < 0 {
		return nil, fmt.Errorf("%w: negative epoch %v", domain.ErrTimestampConversion, epoch)
	}

	rating, _ := domain.Numeric(rec[domain.FieldRating])
	reviewerID, _ := rec[domain.FieldReviewerID].(string)
	productID, _ := rec[domain.FieldProductID].(string)
	text, _ := rec[domain.FieldReviewText].(string)

	review := &domain.Review{
		ReviewerID:        reviewerID,
		ProductID:         productID,
		Rating:            int(rating),
		ReviewText:        text,
		Timestamp:         time.Unix(int64(epoch), 0).UTC().Format(isoDate),
		Category:          category,
		CommercialSegment: e.cfg.SegmentFor(category),
		RatingTier:        e.cfg.TierFor(rating),
		Meta:              make(map[string]any, len(metaFields)),
	}

	for _, field := range metaFields {
		if v, present := rec[field]; present {
			review.Meta[field] = v
		}
	}

	return review, nil
}
