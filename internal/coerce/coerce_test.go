package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/sfs/internal/domain"
)

func TestValues_Sentinels(t *testing.T) {
	values, err := Values([]string{True, False, None, Blank, "plain"}, domain.RangeNone, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, nil, "", "plain"}, values)
}

func TestValues_NoneOrBlankEmitsBoth(t *testing.T) {
	values, err := Values([]string{NoneOrBlank}, domain.RangeNumber, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []any{"", nil}, values)
}

func TestValues_SentinelWinsOverKind(t *testing.T) {
	values, err := Values([]string{None, "7"}, domain.RangeNumber, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, int64(7)}, values)
}

func TestValues_Numbers(t *testing.T) {
	values, err := Values([]string{"100", "2.5", " 3 "}, domain.RangeNumber, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(100), 2.5, int64(3)}, values)
}

func TestValues_InvalidNumber(t *testing.T) {
	_, err := Values([]string{"ten"}, domain.RangeAge, time.UTC)
	require.ErrorIs(t, err, domain.ErrInvalidFilterValue)
}

func TestValues_DateAtMidnightInLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)

	values, err := Values([]string{"2024-03-15"}, domain.RangeDate, loc)
	require.NoError(t, err)
	require.Len(t, values, 1)

	got := values[0].(time.Time)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestValues_InvalidDate(t *testing.T) {
	_, err := Values([]string{"not-a-date"}, domain.RangeDate, time.UTC)
	require.ErrorIs(t, err, domain.ErrInvalidFilterValue)
}

func TestValues_Time(t *testing.T) {
	values, err := Values([]string{"14:30", "09:05:10"}, domain.RangeTime, time.UTC)
	require.NoError(t, err)

	first := values[0].(time.Time)
	assert.Equal(t, 14, first.Hour())
	assert.Equal(t, 30, first.Minute())

	second := values[1].(time.Time)
	assert.Equal(t, 9, second.Hour())
	assert.Equal(t, 10, second.Second())
}

func TestValues_Datetime(t *testing.T) {
	values, err := Values([]string{"2024-01-02 03:04:05"}, domain.RangeDatetime, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), values[0])
}

func TestValues_PassThroughStrings(t *testing.T) {
	values, err := Values([]string{"red", "blue"}, domain.RangeNone, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []any{"red", "blue"}, values)
}

func TestAgeCutoff(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		age   int
		upper bool
		want  time.Time
	}{
		{name: "lower bound", age: 30, want: time.Date(1996, 10, 16, 0, 0, 0, 0, time.UTC)},
		{name: "upper bound adds a year", age: 30, upper: true, want: time.Date(1995, 10, 16, 0, 0, 0, 0, time.UTC)},
		{name: "zero", age: 0, want: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeCutoff(tt.age, tt.upper, now))
		})
	}
}

func TestAgeCutoff_LeapDay(t *testing.T) {
	now := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), AgeCutoff(1, false, now))
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), AgeCutoff(4, false, now))
}

func TestAge_RejectsNonInteger(t *testing.T) {
	_, err := Age("30,40", false, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidFilterValue)
}
