// Package coerce turns raw filter_value tokens into typed values.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/rpattn/sfs/internal/domain"
)

// Sentinel tokens standing in for non-string values on the query string.
const (
	NoneOrBlank = "__NONE_OR_BLANK__"
	None        = "__NONE__"
	Blank       = "__BLANK__"
	True        = "__TRUE__"
	False       = "__FALSE__"
)

var (
	timeLayouts = []string{
		"15:04",
		"15:04:05",
		"15:04:05.999999999",
		"3:04PM",
		"3:04 PM",
		"3:04:05PM",
		"3:04:05 PM",
	}
	datetimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
	}
)

// Values converts tokens according to kind. Dates are anchored at midnight in loc.
//
// NoneOrBlank emits two values, "" followed by nil, so a single token matches
// both empty and missing columns.
func Values(tokens []string, kind domain.RangeSubtype, loc *time.Location) ([]any, error) {
	if loc == nil {
		loc = time.UTC
	}

	values := make([]any, 0, len(tokens))
	for _, token := range tokens {
		switch token {
		case NoneOrBlank:
			values = append(values, "", nil)
			continue
		case None:
			values = append(values, nil)
			continue
		case Blank:
			values = append(values, "")
			continue
		case True:
			values = append(values, true)
			continue
		case False:
			values = append(values, false)
			continue
		}

		value, err := Value(token, kind, loc)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	return values, nil
}

// Value converts one non-sentinel token.
func Value(token string, kind domain.RangeSubtype, loc *time.Location) (any, error) {
	switch kind {
	case domain.RangeDate:
		return ParseDate(token, loc)
	case domain.RangeTime:
		return ParseTime(token)
	case domain.RangeDatetime:
		return ParseDatetime(token, loc)
	case domain.RangeNumber, domain.RangeAge:
		return ParseNumber(token)
	default:
		return token, nil
	}
}

// ParseDate reads a calendar date and returns midnight of that day in loc.
func ParseDate(token string, loc *time.Location) (time.Time, error) {
	token = strings.TrimSpace(token)
	t, err := time.ParseInLocation(time.DateOnly, token, loc)
	if err != nil {
		t, err = cast.ToTimeInDefaultLocationE(token, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a date", domain.ErrInvalidFilterValue, token)
		}
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseTime reads a time of day. The date component of the result is meaningless.
func ParseTime(token string) (time.Time, error) {
	token = strings.TrimSpace(token)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a time", domain.ErrInvalidFilterValue, token)
}

// ParseDatetime reads a full timestamp, defaulting to loc when no offset is given.
func ParseDatetime(token string, loc *time.Location) (time.Time, error) {
	token = strings.TrimSpace(token)
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, token, loc); err == nil {
			return t, nil
		}
	}
	t, err := cast.ToTimeInDefaultLocationE(token, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a datetime", domain.ErrInvalidFilterValue, token)
	}
	return t, nil
}

// ParseNumber reads an integer, falling back to a float.
func ParseNumber(token string) (any, error) {
	token = strings.TrimSpace(token)
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidFilterValue, token)
}
