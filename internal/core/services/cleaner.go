package services

import (
	"strings"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
)

// Cleaner normalises the representation of accepted records. It never
// rejects; rejection is the validator's job. Cleaning is idempotent:
// applying it twice yields the same record as applying it once.
type Cleaner struct {
	cfg domain.Config
}

// NewCleaner creates a cleaner with the given field caps.
func NewCleaner(cfg domain.Config) *Cleaner {
	return &Cleaner{cfg: cfg}
}

// Clean returns a normalised copy of the record. The input is never
// mutated.
func (c *Cleaner) Clean(rec domain.RawRecord) domain.RawRecord {
	out := rec.Clone()

	for key, val := range out {
		if s, ok := val.(string); ok {
			out[key] = strings.TrimSpace(s)
		}
	}

	if text, ok := out[domain.FieldReviewText].(string); ok {
		out[domain.FieldReviewText] = truncate(text, c.cfg.MaxReviewTextLen)
	}
	if summary, ok := out[domain.FieldSummary].(string); ok {
		out[domain.FieldSummary] = truncate(summary, c.cfg.MaxSummaryLen)
	}

	// Optional reviewer name gets an explicit absent marker.
	name, _ := out[domain.FieldReviewerName].(string)
	if name == "" {
		out[domain.FieldReviewerName] = domain.AnonymousReviewer
	}

	// Numeric-looking strings become numbers so downstream stages and
	// queries see one representation.
	for _, key := range []string{domain.FieldRating, domain.FieldUnixTime} {
		if s, ok := out[key].(string); ok {
			if f, numOK := domain.Numeric(s); numOK {
				out[key] = f
			}
		}
	}

	out[domain.FieldHelpful] = normaliseHelpful(out[domain.FieldHelpful])

	return out
}

// truncate caps s at limit runes. Zero limit disables the cap.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// normaliseHelpful coerces the helpful votes field to a two-element
// int slice, defaulting to [0,0] for anything malformed.
func normaliseHelpful(v any) []int {
	if votes, ok := v.([]int); ok && len(votes) >= 2 {
		return votes[:2]
	}

	raw, ok := v.([]any)
	if !ok || len(raw) < 2 {
		return []int{0, 0}
	}

	out := make([]int, 2)
	for i := 0; i < 2; i++ {
		f, numOK := domain.Numeric(raw[i])
		if !numOK {
			return []int{0, 0}
		}
		out[i] = int(f)
	}
	return out
}
