package ranges

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/sfs/internal/domain"
)

func TestBound(t *testing.T) {
	tests := []struct {
		op    domain.ComparisonOperator
		dir   Direction
		bound byte
	}{
		{domain.OpGreaterOrEqual, Lower, '['},
		{domain.OpGreaterThan, Lower, '('},
		{domain.OpLessOrEqual, Upper, ']'},
		{domain.OpLessThan, Upper, ')'},
	}
	for _, tt := range tests {
		dir, bound, err := Bound(tt.op)
		require.NoError(t, err)
		assert.Equal(t, tt.dir, dir, string(tt.op))
		assert.Equal(t, tt.bound, bound, string(tt.op))
	}
}

func TestBound_RejectsUnknownOperator(t *testing.T) {
	for _, op := range []domain.ComparisonOperator{"", "__gte_", "__eq", "gte"} {
		_, _, err := Bound(op)
		require.ErrorIs(t, err, domain.ErrInvalidBoundDirection, string(op))
	}
}

func TestBucket_DefaultBounds(t *testing.T) {
	b := &Bucket{Field: "price", Subtype: domain.RangeNumber}
	assert.Equal(t, "[]", b.Bounds())

	require.NoError(t, b.Add(domain.OpGreaterThan, []any{int64(1)}))
	assert.Equal(t, "(]", b.Bounds())

	require.NoError(t, b.Add(domain.OpLessThan, []any{int64(9)}))
	assert.Equal(t, "()", b.Bounds())
}

func TestBucket_IntervalsPairsLowersAndUppers(t *testing.T) {
	b := &Bucket{Field: "price", Subtype: domain.RangeNumber}
	require.NoError(t, b.Add(domain.OpGreaterOrEqual, []any{int64(10), int64(20)}))
	require.NoError(t, b.Add(domain.OpLessThan, []any{int64(100), int64(200)}))

	intervals, err := b.Intervals()
	require.NoError(t, err)
	require.Len(t, intervals, 2)

	first := intervals[0].(Interval)
	assert.Equal(t, KindNumeric, first.Kind)
	assert.Equal(t, int64(10), first.Lower)
	assert.Equal(t, int64(100), first.Upper)
	assert.Equal(t, "[)", first.Bounds())
}

func TestBucket_IntervalsMissingSideIsUnbounded(t *testing.T) {
	b := &Bucket{Field: "price", Subtype: domain.RangeAge}
	require.NoError(t, b.Add(domain.OpLessOrEqual, []any{int64(5)}))

	intervals, err := b.Intervals()
	require.NoError(t, err)
	require.Len(t, intervals, 1)

	iv := intervals[0].(Interval)
	assert.Nil(t, iv.Lower)
	assert.Equal(t, int64(5), iv.Upper)
	assert.Equal(t, "[]", iv.Bounds())
}

func TestBucket_UnsupportedRangeType(t *testing.T) {
	b := &Bucket{Field: "name", Subtype: domain.RangeSubtype("colour")}
	_, err := b.Intervals()
	require.ErrorIs(t, err, domain.ErrUnsupportedRangeType)
}

func TestInterval_PgValue(t *testing.T) {
	lower := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iv := Interval{Kind: KindTimestamp, Lower: lower, LowerInclusive: true}

	v, err := iv.PgValue()
	require.NoError(t, err)

	r := v.(pgtype.Range[pgtype.Timestamptz])
	assert.True(t, r.Valid)
	assert.Equal(t, pgtype.Inclusive, r.LowerType)
	assert.Equal(t, pgtype.Unbounded, r.UpperType)
	assert.True(t, r.Lower.Time.Equal(lower))

	num := Interval{Kind: KindNumeric, Lower: int64(3), Upper: 7.5, UpperInclusive: true}
	v, err = num.PgValue()
	require.NoError(t, err)

	nr := v.(pgtype.Range[pgtype.Numeric])
	assert.Equal(t, pgtype.Exclusive, nr.LowerType)
	assert.Equal(t, pgtype.Inclusive, nr.UpperType)
	assert.True(t, nr.Lower.Valid)
	assert.True(t, nr.Upper.Valid)
}

func TestInterval_PgValueRejectsWrongEndpoint(t *testing.T) {
	_, err := Interval{Kind: KindTimestamp, Lower: "yesterday"}.PgValue()
	require.ErrorIs(t, err, domain.ErrInvalidFilterValue)
}

func TestDatetimeBucket_Stitch(t *testing.T) {
	loc := time.FixedZone("CET", 60*60)
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	d2 := time.Date(2024, 5, 2, 0, 0, 0, 0, loc)
	t1 := time.Date(0, 1, 1, 8, 30, 0, 0, time.UTC)

	b := &DatetimeBucket{Field: "starts", Operator: domain.OpGreaterOrEqual}
	require.NoError(t, b.Add(domain.RangeDate, []any{d1, d2}))
	require.NoError(t, b.Add(domain.RangeTime, []any{t1}))

	got, err := b.Stitch(time.Now(), loc)
	require.NoError(t, err)
	assert.Equal(t, []any{time.Date(2024, 5, 1, 8, 30, 0, 0, loc)}, got)
}

func TestDatetimeBucket_StitchDefaults(t *testing.T) {
	now := time.Date(2026, 10, 16, 13, 0, 0, 0, time.UTC)
	t1 := time.Date(0, 1, 1, 18, 0, 0, 0, time.UTC)

	onlyTimes := &DatetimeBucket{Field: "starts", Operator: domain.OpLessThan}
	require.NoError(t, onlyTimes.Add(domain.RangeTime, []any{t1}))
	got, err := onlyTimes.Stitch(now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []any{time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)}, got)

	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	onlyDates := &DatetimeBucket{Field: "starts", Operator: domain.OpLessThan}
	require.NoError(t, onlyDates.Add(domain.RangeDate, []any{d1}))
	got, err = onlyDates.Stitch(now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []any{d1}, got)
}

func TestSet_FoldDatetimes(t *testing.T) {
	s := NewSet()
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddDatetimePart("starts", domain.OpGreaterOrEqual, domain.RangeDate, []any{d1}))
	require.NoError(t, s.AddDatetimePart("starts", domain.OpLessThan, domain.RangeDate, []any{d2}))
	require.NoError(t, s.FoldDatetimes(time.Now(), time.UTC))

	require.Len(t, s.Buckets(), 1)
	b := s.Buckets()[0]
	assert.Equal(t, domain.RangeDatetime, b.Subtype)
	assert.Equal(t, "[)", b.Bounds())
	assert.Equal(t, []any{d1}, b.Lowers)
	assert.Equal(t, []any{d2}, b.Uppers)
}
