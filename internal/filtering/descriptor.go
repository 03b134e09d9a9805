// Package filtering compiles positional filter_name/filter_value pairs into a
// filter list of AND-ed OR-groups.
package filtering

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rpattn/sfs/internal/domain"
)

// ValueSeparator splits a filter_value into the alternatives of one OR-group.
const ValueSeparator = ","

// The operator only counts when it ends the name or is followed by a subtype
// suffix, so fields such as "ltree__path" or "gtin" are left alone.
var operatorPattern = regexp.MustCompile(`^(.+?)(__(?:lte|lt|gte|gt))(?:_([A-Za-z]+(?:_[A-Za-z]+)*))?$`)

var subtypes = map[domain.RangeSubtype]struct{}{
	domain.RangeDate:     {},
	domain.RangeTime:     {},
	domain.RangeAge:      {},
	domain.RangeNumber:   {},
	domain.RangeDatetime: {},
}

// ParseDescriptor splits a filter name into field, operator and range subtype and
// attaches the comma-separated raw values.
func ParseDescriptor(name, rawValue string) (domain.FilterDescriptor, error) {
	d := domain.FilterDescriptor{
		Field:  name,
		Values: strings.Split(rawValue, ValueSeparator),
	}

	m := operatorPattern.FindStringSubmatch(name)
	if m == nil {
		return d, nil
	}

	d.Field = m[1]
	d.Operator = domain.ComparisonOperator(m[2])
	if m[3] == "" {
		return d, nil
	}

	info := strings.Split(m[3], "_")
	d.Subtype = domain.RangeSubtype(info[0])
	if _, ok := subtypes[d.Subtype]; !ok {
		return d, fmt.Errorf("%w: %q in filter %q", domain.ErrUnsupportedRangeType, d.Subtype, name)
	}

	switch {
	case d.Subtype == domain.RangeDatetime:
		if len(info) != 2 || (info[1] != string(domain.RangeDate) && info[1] != string(domain.RangeTime)) {
			return d, fmt.Errorf("%w: datetime filter %q needs a _date or _time suffix", domain.ErrUnsupportedRangeType, name)
		}
		d.Part = domain.RangeSubtype(info[1])
	case len(info) > 1:
		return d, fmt.Errorf("%w: %q in filter %q", domain.ErrUnsupportedRangeType, m[3], name)
	}

	return d, nil
}
