package ranges

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// CompareValues orders two scalar values of compatible kinds. ok is false when
// the values cannot be compared.
func CompareValues(a, b any) (c int, ok bool) {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	switch av := a.(type) {
	case time.Time:
		bv, ok := toTime(b)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case pgtype.Timestamptz:
		return CompareValues(av.Time, b)
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, true
	case pgtype.Timestamptz:
		return v.Time, v.Valid
	}
	return time.Time{}, false
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Point returns the degenerate interval [v,v].
func Point(kind IntervalKind, v any) Interval {
	return Interval{Kind: kind, Lower: v, Upper: v, LowerInclusive: true, UpperInclusive: true}
}

// cmpLower orders lower bounds; nil is minus infinity.
func cmpLower(a any, aInc bool, b any, bInc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	c, _ := CompareValues(a, b)
	if c != 0 || aInc == bInc {
		return c
	}
	if aInc {
		return -1
	}
	return 1
}

// cmpUpper orders upper bounds; nil is plus infinity.
func cmpUpper(a any, aInc bool, b any, bInc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c, _ := CompareValues(a, b)
	if c != 0 || aInc == bInc {
		return c
	}
	if aInc {
		return 1
	}
	return -1
}

// ContainsInterval reports whether other lies entirely inside iv.
func (iv Interval) ContainsInterval(other Interval) bool {
	return cmpLower(iv.Lower, iv.LowerInclusive, other.Lower, other.LowerInclusive) <= 0 &&
		cmpUpper(other.Upper, other.UpperInclusive, iv.Upper, iv.UpperInclusive) <= 0
}

// StrictlyLeftOf reports whether iv ends before other starts.
func (iv Interval) StrictlyLeftOf(other Interval) bool {
	if iv.Upper == nil || other.Lower == nil {
		return false
	}
	c, ok := CompareValues(iv.Upper, other.Lower)
	if !ok {
		return false
	}
	return c < 0 || (c == 0 && !(iv.UpperInclusive && other.LowerInclusive))
}

// Overlaps reports whether iv and other share at least one point.
func (iv Interval) Overlaps(other Interval) bool {
	return !iv.StrictlyLeftOf(other) && !other.StrictlyLeftOf(iv)
}

// NotExtendsLeftOf reports whether iv starts no earlier than other.
func (iv Interval) NotExtendsLeftOf(other Interval) bool {
	return cmpLower(iv.Lower, iv.LowerInclusive, other.Lower, other.LowerInclusive) >= 0
}

// NotExtendsRightOf reports whether iv ends no later than other.
func (iv Interval) NotExtendsRightOf(other Interval) bool {
	return cmpUpper(iv.Upper, iv.UpperInclusive, other.Upper, other.UpperInclusive) <= 0
}
