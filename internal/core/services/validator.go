package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// requiredFields must be present on every raw record. The category is
// carried by the source, not the record, so it is not listed here.
var requiredFields = []string{
	domain.FieldReviewerID,
	domain.FieldProductID,
	domain.FieldRating,
	domain.FieldReviewText,
	domain.FieldUnixTime,
}

// Validator classifies raw records as accept or reject. It is a pure
// function over the record; rejected records are counted by the
// pipeline, never persisted.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns nil for an acceptable record, or a wrapped domain
// sentinel error describing the first failure found. Use RejectReason
// to map the error to its report counter.
func (v *Validator) Validate(rec domain.RawRecord) error {
	for _, field := range requiredFields {
		val, ok := rec[field]
		if !ok || val == nil {
			return fmt.Errorf("%w: %s", domain.ErrMissingField, field)
		}
		if s, isStr := val.(string); isStr && strings.TrimSpace(s) == "" {
			if field == domain.FieldReviewText {
				return domain.ErrEmptyReviewText
			}
			return fmt.Errorf("%w: %s", domain.ErrMissingField, field)
		}
	}

	if _, isStr := rec[domain.FieldReviewText].(string); !isStr {
		return fmt.Errorf("%w: %s must be a string", domain.ErrMalformedType, domain.FieldReviewText)
	}

	rating, ok := domain.Numeric(rec[domain.FieldRating])
	if !ok {
		return fmt.Errorf("%w: %s is not numeric", domain.ErrMalformedType, domain.FieldRating)
	}
	if rating != math.Trunc(rating) {
		return fmt.Errorf("%w: %s is not integral", domain.ErrMalformedType, domain.FieldRating)
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: %v", domain.ErrRatingOutOfRange, rating)
	}

	return nil
}

// RejectReason maps a validation error to its report reason code.
func RejectReason(err error) domain.RejectReason {
	switch {
	case errors.Is(err, domain.ErrEmptyReviewText):
		return domain.RejectEmptyReviewText
	case errors.Is(err, domain.ErrRatingOutOfRange):
		return domain.RejectRatingRange
	case errors.Is(err, domain.ErrMalformedType):
		return domain.RejectMalformedType
	default:
		return domain.RejectMissingField
	}
}
