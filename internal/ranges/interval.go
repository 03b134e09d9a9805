package ranges

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rpattn/sfs/internal/domain"
)

// IntervalKind selects the native interval type an Interval maps to.
type IntervalKind string

const (
	KindTimestamp IntervalKind = "tstzrange"
	KindNumeric   IntervalKind = "numrange"
)

// KindFor maps a range subtype onto its interval kind.
func KindFor(subtype domain.RangeSubtype) (IntervalKind, error) {
	switch {
	case subtype.IsTemporal():
		return KindTimestamp, nil
	case subtype.IsNumeric():
		return KindNumeric, nil
	default:
		return "", fmt.Errorf("%w: %q does not map to an interval type", domain.ErrUnsupportedRangeType, subtype)
	}
}

// Interval is a bounded range value. A nil endpoint is unbounded.
type Interval struct {
	Kind           IntervalKind
	Lower          any
	Upper          any
	LowerInclusive bool
	UpperInclusive bool
}

// Bounds renders the bound characters, e.g. "[)".
func (iv Interval) Bounds() string {
	lower, upper := LowerExclusive, UpperExclusive
	if iv.LowerInclusive {
		lower = LowerInclusive
	}
	if iv.UpperInclusive {
		upper = UpperInclusive
	}
	return string([]byte{lower, upper})
}

func (iv Interval) String() string {
	return fmt.Sprintf("%c%s,%s%c", iv.Bounds()[0], endpoint(iv.Lower), endpoint(iv.Upper), iv.Bounds()[1])
}

func endpoint(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// PgValue converts the interval into the pgx range type for its kind.
func (iv Interval) PgValue() (any, error) {
	switch iv.Kind {
	case KindTimestamp:
		r := pgtype.Range[pgtype.Timestamptz]{Valid: true}
		var err error
		if r.Lower, r.LowerType, err = timestampBound(iv.Lower, iv.LowerInclusive); err != nil {
			return nil, err
		}
		if r.Upper, r.UpperType, err = timestampBound(iv.Upper, iv.UpperInclusive); err != nil {
			return nil, err
		}
		return r, nil
	case KindNumeric:
		r := pgtype.Range[pgtype.Numeric]{Valid: true}
		var err error
		if r.Lower, r.LowerType, err = numericBound(iv.Lower, iv.LowerInclusive); err != nil {
			return nil, err
		}
		if r.Upper, r.UpperType, err = numericBound(iv.Upper, iv.UpperInclusive); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedRangeType, iv.Kind)
	}
}

func boundType(inclusive bool) pgtype.BoundType {
	if inclusive {
		return pgtype.Inclusive
	}
	return pgtype.Exclusive
}

func timestampBound(v any, inclusive bool) (pgtype.Timestamptz, pgtype.BoundType, error) {
	switch v := v.(type) {
	case nil:
		return pgtype.Timestamptz{}, pgtype.Unbounded, nil
	case time.Time:
		return pgtype.Timestamptz{Time: v, Valid: true}, boundType(inclusive), nil
	default:
		return pgtype.Timestamptz{}, 0, fmt.Errorf("%w: %v is not a timestamp", domain.ErrInvalidFilterValue, v)
	}
}

func numericBound(v any, inclusive bool) (pgtype.Numeric, pgtype.BoundType, error) {
	var n pgtype.Numeric
	switch v := v.(type) {
	case nil:
		return n, pgtype.Unbounded, nil
	case int64:
		return scanNumeric(strconv.FormatInt(v, 10), inclusive)
	case float64:
		return scanNumeric(strconv.FormatFloat(v, 'f', -1, 64), inclusive)
	default:
		return n, 0, fmt.Errorf("%w: %v is not a number", domain.ErrInvalidFilterValue, v)
	}
}

func scanNumeric(text string, inclusive bool) (pgtype.Numeric, pgtype.BoundType, error) {
	var n pgtype.Numeric
	if err := n.Scan(text); err != nil {
		return n, 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidFilterValue, text, err)
	}
	return n, boundType(inclusive), nil
}
