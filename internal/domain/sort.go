package domain

import "strings"

// DescendingMarker prefixes a sort token to request descending order.
const DescendingMarker = "-"

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "ASC"
	SortDirectionDesc SortDirection = "DESC"
)

// SortToken is one requested ordering key.
type SortToken struct {
	Name       string
	Descending bool
}

// ParseSortToken reads a raw sort_by value such as "-created".
func ParseSortToken(raw string) SortToken {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, DescendingMarker) {
		return SortToken{Name: strings.TrimPrefix(raw, DescendingMarker), Descending: true}
	}
	return SortToken{Name: raw}
}

// Direction returns the SQL direction of the token.
func (t SortToken) Direction() SortDirection {
	if t.Descending {
		return SortDirectionDesc
	}
	return SortDirectionAsc
}

// Inverted returns the token with its direction flipped.
func (t SortToken) Inverted() SortToken {
	return SortToken{Name: t.Name, Descending: !t.Descending}
}

func (t SortToken) String() string {
	if t.Descending {
		return DescendingMarker + t.Name
	}
	return t.Name
}

// SortTokenStrings renders tokens back to their wire form.
func SortTokenStrings(tokens []SortToken) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}
