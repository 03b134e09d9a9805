package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/sfs/internal/domain"
)

// AgeCutoff converts an age into the birth date a person of that age was born on
// or before, today. Upper bounds use age+1 because older ages map to earlier
// birth dates.
func AgeCutoff(age int, upper bool, now time.Time) time.Time {
	if upper {
		age++
	}
	now = now.UTC()
	year := now.Year() - age
	month, day := now.Month(), now.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Age parses a raw age token and returns its birth-date cutoff.
func Age(token string, upper bool, now time.Time) (time.Time, error) {
	age, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: age %q is not an integer", domain.ErrInvalidFilterValue, token)
	}
	return AgeCutoff(age, upper, now), nil
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
