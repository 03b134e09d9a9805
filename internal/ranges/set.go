package ranges

import (
	"time"

	"github.com/rpattn/sfs/internal/domain"
)

// Set holds the request-scoped range and datetime buckets in first-seen order.
type Set struct {
	buckets   []*Bucket
	byField   map[string]*Bucket
	datetimes []*DatetimeBucket
	byKey     map[string]*DatetimeBucket
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		byField: make(map[string]*Bucket),
		byKey:   make(map[string]*DatetimeBucket),
	}
}

// Bucket returns the range bucket for field, opening it with subtype on first use.
func (s *Set) Bucket(field string, subtype domain.RangeSubtype) *Bucket {
	if b, ok := s.byField[field]; ok {
		return b
	}
	b := &Bucket{Field: field, Subtype: subtype}
	s.byField[field] = b
	s.buckets = append(s.buckets, b)
	return b
}

// AddRange records one side of a ranged field.
func (s *Set) AddRange(field string, op domain.ComparisonOperator, subtype domain.RangeSubtype, values []any) error {
	if _, _, err := Bound(op); err != nil {
		return err
	}
	return s.Bucket(field, subtype).Add(op, values)
}

// AddDatetimePart records the date or time half of one side of a datetime range.
func (s *Set) AddDatetimePart(field string, op domain.ComparisonOperator, part domain.RangeSubtype, values []any) error {
	key := field + string(op)
	b, ok := s.byKey[key]
	if !ok {
		b = &DatetimeBucket{Field: field, Operator: op}
		s.byKey[key] = b
		s.datetimes = append(s.datetimes, b)
	}
	return b.Add(part, values)
}

// Datetimes returns the datetime buckets in first-seen order.
func (s *Set) Datetimes() []*DatetimeBucket {
	return s.datetimes
}

// Buckets returns the range buckets in first-seen order.
func (s *Set) Buckets() []*Bucket {
	return s.buckets
}

// FoldDatetimes stitches every datetime bucket into the range bucket of its field.
func (s *Set) FoldDatetimes(now time.Time, loc *time.Location) error {
	for _, dt := range s.datetimes {
		values, err := dt.Stitch(now, loc)
		if err != nil {
			return err
		}
		if err := s.AddRange(dt.Field, dt.Operator, domain.RangeDatetime, values); err != nil {
			return err
		}
	}
	return nil
}
