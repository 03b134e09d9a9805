package domain

import "strings"

// RangeSubtype names the value kind encoded after a comparison operator in a filter name.
type RangeSubtype string

const (
	RangeNone     RangeSubtype = ""
	RangeDate     RangeSubtype = "date"
	RangeTime     RangeSubtype = "time"
	RangeAge      RangeSubtype = "age"
	RangeNumber   RangeSubtype = "number"
	RangeDatetime RangeSubtype = "datetime"
)

// IsTemporal reports whether values of the subtype are timestamps.
func (s RangeSubtype) IsTemporal() bool {
	return s == RangeDate || s == RangeTime || s == RangeDatetime
}

// IsNumeric reports whether values of the subtype are numbers.
func (s RangeSubtype) IsNumeric() bool {
	return s == RangeNumber || s == RangeAge
}

// ComparisonOperator is the lookup suffix embedded in a filter name.
type ComparisonOperator string

const (
	OpNone           ComparisonOperator = ""
	OpGreaterThan    ComparisonOperator = "__gt"
	OpGreaterOrEqual ComparisonOperator = "__gte"
	OpLessThan       ComparisonOperator = "__lt"
	OpLessOrEqual    ComparisonOperator = "__lte"
)

// IsLower reports whether the operator bounds a range from below.
func (o ComparisonOperator) IsLower() bool {
	return o == OpGreaterThan || o == OpGreaterOrEqual
}

// IsUpper reports whether the operator bounds a range from above.
func (o ComparisonOperator) IsUpper() bool {
	return o == OpLessThan || o == OpLessOrEqual
}

// IsInclusive reports whether the bound includes its endpoint.
func (o ComparisonOperator) IsInclusive() bool {
	return o == OpGreaterOrEqual || o == OpLessOrEqual
}

// RangeComparison is the lookup applied to a native interval filter.
type RangeComparison string

const (
	RangeContainedBy      RangeComparison = "__contained_by"
	RangeContains         RangeComparison = "__contains"
	RangeOverlap          RangeComparison = "__overlap"
	RangeNotLessThan      RangeComparison = "__not_lt"
	RangeNotGreaterThan   RangeComparison = "__not_gt"
	RangeFullyLessThan    RangeComparison = "__fully_lt"
	RangeFullyGreaterThan RangeComparison = "__fully_gt"
)

// Valid reports whether c is one of the known interval lookups.
func (c RangeComparison) Valid() bool {
	switch c {
	case RangeContainedBy, RangeContains, RangeOverlap, RangeNotLessThan,
		RangeNotGreaterThan, RangeFullyLessThan, RangeFullyGreaterThan:
		return true
	}
	return false
}

// FilterDescriptor is one parsed filter_name token with its raw values.
type FilterDescriptor struct {
	Field    string
	Operator ComparisonOperator
	Subtype  RangeSubtype
	// Part is the date or time half of a datetime range fragment.
	Part   RangeSubtype
	Values []string
}

// Key returns the lookup key for a flat filter entry.
func (d FilterDescriptor) Key() string {
	return d.Field + string(d.Operator)
}

// FilterEntry is one OR-group of a compiled filter list.
type FilterEntry struct {
	Key    string
	Values []any
}

// FilterList is an ordered set of OR-groups that are AND-ed together.
// Setting an existing key replaces its values in place.
type FilterList struct {
	entries []FilterEntry
	index   map[string]int
}

// Set stores values under key.
func (l *FilterList) Set(key string, values []any) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[key]; ok {
		l.entries[i].Values = values
		return
	}
	l.index[key] = len(l.entries)
	l.entries = append(l.entries, FilterEntry{Key: key, Values: values})
}

// Get returns the values stored under key.
func (l *FilterList) Get(key string) ([]any, bool) {
	i, ok := l.index[key]
	if !ok {
		return nil, false
	}
	return l.entries[i].Values, true
}

// Entries returns the entries in insertion order.
func (l *FilterList) Entries() []FilterEntry {
	return l.entries
}

// Len returns the number of OR-groups.
func (l *FilterList) Len() int {
	return len(l.entries)
}

// Keys returns the entry keys in insertion order.
func (l *FilterList) Keys() []string {
	keys := make([]string, len(l.entries))
	for i, e := range l.entries {
		keys[i] = e.Key
	}
	return keys
}

// LookupSeparator joins relation names, fields and operators in a lookup.
const LookupSeparator = "__"

// SplitLookup splits a "a__b__op" lookup into its relation path and field.
func SplitLookup(lookup string) []string {
	return strings.Split(lookup, LookupSeparator)
}
