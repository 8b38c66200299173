package services

import "github.com/reviewlens/reviewlens-cli/internal/core/domain"

// Deduplicator drops records whose (reviewerID, asin) pair has been
// seen before. The first-encountered record wins; order is stable.
// It runs after cleaning, so key fields are already normalised, and
// before enrichment, so derived fields are not computed for records
// that would be dropped anyway.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates a deduplicator with an empty seen set.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Observe records the key and reports whether it is a duplicate of an
// earlier record.
func (d *Deduplicator) Observe(rec domain.RawRecord) bool {
	key := dedupKey(rec)
	if _, dup := d.seen[key]; dup {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// Deduplicate filters a batch, keeping the first occurrence of each
// key in input order. Returns the kept records and the drop count.
func (d *Deduplicator) Deduplicate(records []domain.RawRecord) ([]domain.RawRecord, int) {
	kept := make([]domain.RawRecord, 0, len(records))
	dropped := 0
	for _, rec := range records {
		if d.Observe(rec) {
			dropped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}

func dedupKey(rec domain.RawRecord) string {
	reviewer, _ := rec[domain.FieldReviewerID].(string)
	product, _ := rec[domain.FieldProductID].(string)
	return reviewer + "\x00" + product
}
