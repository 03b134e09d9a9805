package ranges

import (
	"fmt"
	"time"

	"github.com/rpattn/sfs/internal/domain"
)

// Bucket collects the lower and upper fragments of one ranged field.
type Bucket struct {
	Field   string
	Subtype domain.RangeSubtype
	Lowers  []any
	Uppers  []any
	// LowerBound and UpperBound hold the bound characters seen, zero if none.
	LowerBound byte
	UpperBound byte
}

// Add records the values submitted for one side of the range.
func (b *Bucket) Add(op domain.ComparisonOperator, values []any) error {
	dir, bound, err := Bound(op)
	if err != nil {
		return err
	}
	if dir == Lower {
		b.LowerBound = bound
		b.Lowers = values
	} else {
		b.UpperBound = bound
		b.Uppers = values
	}
	return nil
}

// Bounds returns the bound characters, defaulting to "[]".
func (b *Bucket) Bounds() string {
	lower, upper := b.LowerBound, b.UpperBound
	if lower == 0 {
		lower = LowerInclusive
	}
	if upper == 0 {
		upper = UpperInclusive
	}
	return string([]byte{lower, upper})
}

// Intervals builds one interval per lower/upper pair. A missing side is unbounded.
func (b *Bucket) Intervals() ([]any, error) {
	kind, err := KindFor(b.Subtype)
	if err != nil {
		return nil, err
	}

	lowers, uppers := b.Lowers, b.Uppers
	n := max(len(lowers), len(uppers))
	if len(lowers) == 0 {
		lowers = make([]any, n)
	}
	if len(uppers) == 0 {
		uppers = make([]any, n)
	}
	n = min(len(lowers), len(uppers))

	bounds := b.Bounds()
	intervals := make([]any, 0, n)
	for i := 0; i < n; i++ {
		intervals = append(intervals, Interval{
			Kind:           kind,
			Lower:          lowers[i],
			Upper:          uppers[i],
			LowerInclusive: bounds[0] == LowerInclusive,
			UpperInclusive: bounds[1] == UpperInclusive,
		})
	}
	return intervals, nil
}

// DatetimeBucket collects the date and time fragments of one side of a datetime range.
type DatetimeBucket struct {
	Field    string
	Operator domain.ComparisonOperator
	Dates    []any
	Times    []any
}

// Key identifies the bucket by field and operator.
func (b *DatetimeBucket) Key() string {
	return b.Field + string(b.Operator)
}

// Add stores the date or time fragment values.
func (b *DatetimeBucket) Add(part domain.RangeSubtype, values []any) error {
	switch part {
	case domain.RangeDate:
		b.Dates = values
	case domain.RangeTime:
		b.Times = values
	default:
		return fmt.Errorf("%w: datetime fragment %q", domain.ErrUnsupportedRangeType, part)
	}
	return nil
}

// Stitch zips dates and times pairwise into timestamps. Missing dates fall back to
// today in loc; missing times fall back to midnight of the paired date.
func (b *DatetimeBucket) Stitch(now time.Time, loc *time.Location) ([]any, error) {
	if loc == nil {
		loc = time.UTC
	}
	dates, times := b.Dates, b.Times

	if len(dates) == 0 && len(times) > 0 {
		today := now.In(loc)
		midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
		dates = make([]any, len(times))
		for i := range dates {
			dates[i] = midnight
		}
	}
	if len(times) == 0 {
		times = dates
	}

	n := min(len(dates), len(times))
	stitched := make([]any, 0, n)
	for i := 0; i < n; i++ {
		d, ok := dates[i].(time.Time)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a date", domain.ErrInvalidFilterValue, dates[i])
		}
		t, ok := times[i].(time.Time)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a time", domain.ErrInvalidFilterValue, times[i])
		}
		stitched = append(stitched, combine(d, t))
	}
	return stitched, nil
}

func combine(d, t time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), d.Location())
}
