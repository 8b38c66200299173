package domain

import "time"

// RejectReason classifies why the validator dropped a record.
type RejectReason string

// Reject reasons reported in the build summary.
const (
	RejectMissingField    RejectReason = "missing_required_field"
	RejectEmptyReviewText RejectReason = "empty_review_text"
	RejectRatingRange     RejectReason = "rating_out_of_range"
	RejectMalformedType   RejectReason = "malformed_type"
)

// BuildReport summarises one full pipeline run. Per-record failures
// are counted here rather than aborting the batch.
type BuildReport struct {
	BuildID string `json:"build_id"`

	RecordsRead      int `json:"records_read"`
	Accepted         int `json:"accepted"`
	Duplicates       int `json:"duplicates"`
	ConversionErrors int `json:"conversion_errors"`
	SourceErrors     int `json:"source_errors"`

	// Rejected counts validation drops per reason.
	Rejected map[RejectReason]int `json:"rejected"`

	// Inserted counts documents per category table. The master table
	// is excluded; its count equals the sum.
	Inserted map[string]int `json:"inserted"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// NewBuildReport returns a report with initialised counters.
func NewBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		BuildID:  buildID,
		Rejected: make(map[RejectReason]int),
		Inserted: make(map[string]int),
	}
}

// TotalRejected sums validation drops across all reasons.
func (r *BuildReport) TotalRejected() int {
	total := 0
	for _, n := range r.Rejected {
		total += n
	}
	return total
}

// TotalInserted sums documents across category tables.
func (r *BuildReport) TotalInserted() int {
	total := 0
	for _, n := range r.Inserted {
		total += n
	}
	return total
}
