package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// Validation errors. A record failing validation is dropped and
	// counted; the batch continues.

	// ErrMissingField indicates a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrEmptyReviewText indicates the review text is empty after trimming.
	ErrEmptyReviewText = errors.New("empty review text")

	// ErrRatingOutOfRange indicates the rating is outside [1,5].
	// Out-of-range ratings are rejected, never clamped.
	ErrRatingOutOfRange = errors.New("rating out of range")

	// ErrMalformedType indicates a field value has an unconvertible type.
	ErrMalformedType = errors.New("malformed field type")

	// Enrichment errors. Also recoverable per record.

	// ErrTimestampConversion indicates the epoch timestamp is negative
	// or non-numeric and cannot be converted to a date.
	ErrTimestampConversion = errors.New("timestamp conversion failed")

	// Store errors.

	// ErrTableNotFound indicates a named table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrTableExists indicates a table with that name already exists.
	ErrTableExists = errors.New("table already exists")

	// ErrDuplicateKey indicates a document with the same
	// (reviewer_id, product_id) pair is already present in the table.
	ErrDuplicateKey = errors.New("duplicate document key")

	// ErrCorruptStore indicates the persisted snapshot does not match
	// the expected table-of-tables-of-documents shape. Fatal on load;
	// the caller decides between rebuild-from-raw and abort.
	ErrCorruptStore = errors.New("corrupt store")

	// Query errors.

	// ErrUnknownOperator indicates an unrecognised filter operator.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownAggregate indicates an unrecognised aggregate function.
	ErrUnknownAggregate = errors.New("unknown aggregate function")

	// ErrNoMetadata indicates the store has no metadata document yet.
	ErrNoMetadata = errors.New("no metadata document")
)
