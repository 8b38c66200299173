package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Operator identifies a filter comparison. The set is closed; the
// query engine dispatches on it in a single evaluator.
type Operator string

// Supported filter operators.
const (
	OpEquals         Operator = "eq"
	OpGreaterOrEqual Operator = "gte"
	OpLessOrEqual    Operator = "lte"
	OpInSet          Operator = "in"
)

// ParseOperator converts a textual operator (as typed on the CLI)
// into an Operator.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "eq", "=", "==":
		return OpEquals, nil
	case "gte", ">=":
		return OpGreaterOrEqual, nil
	case "lte", "<=":
		return OpLessOrEqual, nil
	case "in":
		return OpInSet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Condition is one field/operator/value filter triple. Multiple
// conditions in a query are conjunctive.
type Condition struct {
	Field string
	Op    Operator

	// Value holds the comparison value. For OpInSet it is a []any
	// listing the accepted values.
	Value any
}

// AggregateFunc identifies an aggregation over a target field.
type AggregateFunc string

// Supported aggregate functions.
const (
	AggAverage AggregateFunc = "avg"
	AggCount   AggregateFunc = "count"
)

// ParseAggregateFunc converts a textual function name into an
// AggregateFunc.
func ParseAggregateFunc(s string) (AggregateFunc, error) {
	switch s {
	case "avg", "average", "mean":
		return AggAverage, nil
	case "count":
		return AggCount, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAggregate, s)
}

// AggregateValue is one group's result. A group with no usable values
// carries the explicit no_data sentinel instead of a number; it is
// never reported as zero or NaN.
type AggregateValue struct {
	Value  float64
	NoData bool
}

// noDataSentinel is the JSON rendering of an empty group.
const noDataSentinel = "no_data"

// MarshalJSON renders the numeric value, or the "no_data" string for
// an empty group.
func (v AggregateValue) MarshalJSON() ([]byte, error) {
	if v.NoData {
		return json.Marshal(noDataSentinel)
	}
	return json.Marshal(v.Value)
}

// UnmarshalJSON accepts either a number or the "no_data" string.
func (v *AggregateValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != noDataSentinel {
			return fmt.Errorf("unexpected aggregate string %q", s)
		}
		v.NoData = true
		v.Value = 0
		return nil
	}
	v.NoData = false
	return json.Unmarshal(data, &v.Value)
}

// String formats the value for table output.
func (v AggregateValue) String() string {
	if v.NoData {
		return noDataSentinel
	}
	return strconv.FormatFloat(v.Value, 'f', -1, 64)
}

// AggregateResult maps each distinct group value to its aggregate.
type AggregateResult map[string]AggregateValue
