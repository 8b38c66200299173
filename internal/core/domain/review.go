package domain

// Source field names as they appear in the upstream review dataset.
// Raw records are keyed by these names until the enricher produces
// a typed Review.
const (
	FieldReviewerID   = "reviewerID"
	FieldProductID    = "asin"
	FieldReviewerName = "reviewerName"
	FieldHelpful      = "helpful"
	FieldReviewText   = "reviewText"
	FieldRating       = "overall"
	FieldSummary      = "summary"
	FieldUnixTime     = "unixReviewTime"
	FieldReviewTime   = "reviewTime"
)

// AnonymousReviewer is the explicit absent marker for a missing
// reviewer name.
const AnonymousReviewer = "Anonymous"

// RawRecord is a single record as received from the acquisition
// collaborator. No invariants are guaranteed until it has passed
// through the validator and cleaner.
type RawRecord map[string]any

// Clone returns a shallow copy of the record. Pipeline stages never
// mutate their input; they clone and modify the copy.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Commercial segments derived from the source category.
const (
	SegmentEntertainment = "Entertainment"
	SegmentHome          = "Home"
	SegmentOther         = "Other"
)

// Rating tiers derived from the numeric rating.
const (
	TierExcellent        = "excellent"
	TierGood             = "good"
	TierNeedsImprovement = "needs_improvement"
)

// Review is the canonical document after validation, cleaning and
// enrichment. Reviews are immutable once inserted into a store.
type Review struct {
	// ReviewerID and ProductID together form the natural dedup key.
	ReviewerID string `json:"reviewer_id"`
	ProductID  string `json:"product_id"`

	// Rating is an integer in [1,5].
	Rating int `json:"rating"`

	// ReviewText is never empty; records without text are rejected.
	ReviewText string `json:"review_text"`

	// Timestamp is an ISO-8601 date derived from the epoch-seconds
	// source field.
	Timestamp string `json:"timestamp"`

	// Category is the original source category.
	Category string `json:"category"`

	// CommercialSegment is derived from Category via the configured
	// segment mapping.
	CommercialSegment string `json:"commercial_segment"`

	// RatingTier is the categorical bucket for Rating.
	RatingTier string `json:"rating_tier"`

	// Meta preserves original fields that are not validated
	// (reviewer name, helpful votes, summary, human-readable date).
	Meta map[string]any `json:"meta,omitempty"`
}

// Key returns the composite dedup key for the review.
func (r *Review) Key() string {
	return r.ReviewerID + "\x00" + r.ProductID
}

// Field returns the value of a named field for query evaluation.
// Typed fields resolve by their JSON name; anything else falls back
// to the Meta map.
func (r *Review) Field(name string) (any, bool) {
	switch name {
	case "reviewer_id":
		return r.ReviewerID, true
	case "product_id":
		return r.ProductID, true
	case "rating":
		return r.Rating, true
	case "review_text":
		return r.ReviewText, true
	case "timestamp":
		return r.Timestamp, true
	case "category":
		return r.Category, true
	case "commercial_segment":
		return r.CommercialSegment, true
	case "rating_tier":
		return r.RatingTier, true
	}
	v, ok := r.Meta[name]
	return v, ok
}

// Metadata is the dataset-level document held in the metadata table.
// One per store, overwritten on rebuild.
type Metadata struct {
	RecordCount int      `json:"record_count"`
	Categories  []string `json:"categories"`
	BuiltAt     string   `json:"built_at"`
	BuildID     string   `json:"build_id"`
}
