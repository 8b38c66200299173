package domain

import (
	"fmt"
	"strconv"
)

// Numeric converts a scalar value to float64 for comparison. Strings
// are parsed; anything else non-numeric reports false.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ValueString renders a scalar field value as a stable string, used
// for equality checks, set membership and group keys.
func ValueString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		if f, ok := Numeric(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return fmt.Sprintf("%v", v)
	}
}

// Matches reports whether the review satisfies the condition.
// Ordering operators compare numerically when both sides are numeric
// and lexically otherwise; equality and set membership compare the
// canonical string forms.
func (c Condition) Matches(r *Review) bool {
	fieldVal, ok := r.Field(c.Field)
	if !ok {
		return false
	}

	switch c.Op {
	case OpEquals:
		return ValueString(fieldVal) == ValueString(c.Value)

	case OpGreaterOrEqual, OpLessOrEqual:
		fv, fOK := Numeric(fieldVal)
		cv, cOK := Numeric(c.Value)
		if fOK && cOK {
			if c.Op == OpGreaterOrEqual {
				return fv >= cv
			}
			return fv <= cv
		}
		fs, cs := ValueString(fieldVal), ValueString(c.Value)
		if c.Op == OpGreaterOrEqual {
			return fs >= cs
		}
		return fs <= cs

	case OpInSet:
		set, setOK := c.Value.([]any)
		if !setOK {
			return false
		}
		fs := ValueString(fieldVal)
		for _, member := range set {
			if ValueString(member) == fs {
				return true
			}
		}
		return false

	default:
		return false
	}
}

// MatchesAll reports whether the review satisfies every condition.
// Conditions are conjunctive.
func MatchesAll(r *Review, conditions []Condition) bool {
	for _, c := range conditions {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}
