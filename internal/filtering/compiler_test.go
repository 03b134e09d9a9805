package filtering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/ranges"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newCompiler(mode ranges.Mode) *Compiler {
	return &Compiler{
		Mode:      mode,
		Location:  time.UTC,
		Now:       func() time.Time { return fixedNow },
		AgeFields: map[string]string{"age": "birthdate"},
	}
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name string
		want domain.FilterDescriptor
	}{
		{"status", domain.FilterDescriptor{Field: "status"}},
		{"owner__name", domain.FilterDescriptor{Field: "owner__name"}},
		{"created__lte", domain.FilterDescriptor{Field: "created", Operator: domain.OpLessOrEqual}},
		{"price__gt_number", domain.FilterDescriptor{Field: "price", Operator: domain.OpGreaterThan, Subtype: domain.RangeNumber}},
		{"owner__age__gte_age", domain.FilterDescriptor{Field: "owner__age", Operator: domain.OpGreaterOrEqual, Subtype: domain.RangeAge}},
		{"starts__lt_datetime_time", domain.FilterDescriptor{Field: "starts", Operator: domain.OpLessThan, Subtype: domain.RangeDatetime, Part: domain.RangeTime}},
		{"item__gtin", domain.FilterDescriptor{Field: "item__gtin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDescriptor(tt.name, "x")
			require.NoError(t, err)
			tt.want.Values = []string{"x"}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDescriptor_UnsupportedSubtype(t *testing.T) {
	for _, name := range []string{"price__gte_colour", "starts__gte_datetime", "starts__gte_datetime_week", "price__gte_number_extra"} {
		_, err := ParseDescriptor(name, "1")
		require.ErrorIs(t, err, domain.ErrUnsupportedRangeType, name)
	}
}

func TestCompile_PlainValuesAreORGroups(t *testing.T) {
	list, err := newCompiler(ranges.ModeComparisons).Compile(
		[]string{"status", "active"},
		[]string{"red,blue", "__TRUE__"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"status", "active"}, list.Keys())
	status, _ := list.Get("status")
	assert.Equal(t, []any{"red", "blue"}, status)
	active, _ := list.Get("active")
	assert.Equal(t, []any{true}, active)
}

func TestCompile_AgeLowerBound(t *testing.T) {
	list, err := newCompiler(ranges.ModeComparisons).Compile([]string{"age__gte_age"}, []string{"30"})
	require.NoError(t, err)

	values, ok := list.Get("birthdate__gte")
	require.True(t, ok)
	assert.Equal(t, []any{time.Date(1996, 10, 16, 0, 0, 0, 0, time.UTC)}, values)
}

func TestCompile_AgeUpperBound(t *testing.T) {
	list, err := newCompiler(ranges.ModeComparisons).Compile([]string{"age__lte_age"}, []string{"30"})
	require.NoError(t, err)

	values, ok := list.Get("birthdate__lte")
	require.True(t, ok)
	assert.Equal(t, []any{time.Date(1995, 10, 16, 0, 0, 0, 0, time.UTC)}, values)
}

func TestCompile_NumberBoundsAreSeparateEntries(t *testing.T) {
	list, err := newCompiler(ranges.ModeComparisons).Compile(
		[]string{"price__lte_number", "price__gte_number"},
		[]string{"100", "10"},
	)
	require.NoError(t, err)

	require.Equal(t, 2, list.Len())
	assert.Equal(t, domain.FilterEntry{Key: "price__lte", Values: []any{int64(100)}}, list.Entries()[0])
	assert.Equal(t, domain.FilterEntry{Key: "price__gte", Values: []any{int64(10)}}, list.Entries()[1])
}

func TestCompile_ExcessNamesIgnored(t *testing.T) {
	list, err := newCompiler(ranges.ModeComparisons).Compile(
		[]string{"status", "colour", "size"},
		[]string{"open"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, list.Keys())
}

func TestCompile_RepeatedNameReplacesValues(t *testing.T) {
	list, err := newCompiler(ranges.ModeComparisons).Compile(
		[]string{"status", "colour", "status"},
		[]string{"open", "red", "closed"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"status", "colour"}, list.Keys())
	status, _ := list.Get("status")
	assert.Equal(t, []any{"closed"}, status)
}

func TestCompile_InvalidNumber(t *testing.T) {
	_, err := newCompiler(ranges.ModeComparisons).Compile([]string{"price__gte_number"}, []string{"cheap"})
	require.ErrorIs(t, err, domain.ErrInvalidFilterValue)
}

func TestCompile_NativeNumberRange(t *testing.T) {
	list, err := newCompiler(ranges.ModeNativeIntervals).Compile(
		[]string{"price__lte_number", "price__gte_number"},
		[]string{"100", "10"},
	)
	require.NoError(t, err)

	values, ok := list.Get("price__contained_by")
	require.True(t, ok)
	require.Len(t, values, 1)
	assert.Equal(t, ranges.Interval{
		Kind:           ranges.KindNumeric,
		Lower:          int64(10),
		Upper:          int64(100),
		LowerInclusive: true,
		UpperInclusive: true,
	}, values[0])
}

func TestCompile_NativeComparisonOverride(t *testing.T) {
	c := newCompiler(ranges.ModeNativeIntervals)
	c.Comparisons = map[string]domain.RangeComparison{"valid_during": domain.RangeOverlap}

	list, err := c.Compile([]string{"valid_during__gt_date"}, []string{"2024-01-01"})
	require.NoError(t, err)

	values, ok := list.Get("valid_during__overlap")
	require.True(t, ok)
	iv := values[0].(ranges.Interval)
	assert.Equal(t, ranges.KindTimestamp, iv.Kind)
	assert.Equal(t, "(]", iv.Bounds())
	assert.Nil(t, iv.Upper)
}

func TestCompile_NativeDatetimeRange(t *testing.T) {
	list, err := newCompiler(ranges.ModeNativeIntervals).Compile(
		[]string{"starts__gte_datetime_date", "starts__gte_datetime_time", "starts__lt_datetime_date"},
		[]string{"2024-05-01", "08:15", "2024-06-01"},
	)
	require.NoError(t, err)

	values, ok := list.Get("starts__contained_by")
	require.True(t, ok)
	require.Len(t, values, 1)

	iv := values[0].(ranges.Interval)
	assert.Equal(t, "[)", iv.Bounds())
	assert.Equal(t, time.Date(2024, 5, 1, 8, 15, 0, 0, time.UTC), iv.Lower)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), iv.Upper)
}

func TestCompile_DatetimeComparisons(t *testing.T) {
	list, err := newCompiler(ranges.ModeComparisons).Compile(
		[]string{"starts__gte_datetime_date", "starts__gte_datetime_time", "starts__lt_datetime_time"},
		[]string{"2024-05-01", "08:15", "17:00"},
	)
	require.NoError(t, err)

	lower, ok := list.Get("starts__gte")
	require.True(t, ok)
	assert.Equal(t, []any{time.Date(2024, 5, 1, 8, 15, 0, 0, time.UTC)}, lower)

	upper, ok := list.Get("starts__lt")
	require.True(t, ok)
	assert.Equal(t, []any{time.Date(2026, 10, 16, 17, 0, 0, 0, time.UTC)}, upper)
}

func TestCompile_NativeAgeKeepsNumbers(t *testing.T) {
	list, err := newCompiler(ranges.ModeNativeIntervals).Compile([]string{"age__gte_age"}, []string{"18"})
	require.NoError(t, err)

	values, ok := list.Get("age__contained_by")
	require.True(t, ok)
	iv := values[0].(ranges.Interval)
	assert.Equal(t, ranges.KindNumeric, iv.Kind)
	assert.Equal(t, int64(18), iv.Lower)
}
