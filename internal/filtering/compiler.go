package filtering

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rpattn/sfs/internal/coerce"
	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/ranges"
)

// Compiler turns raw filter parameters into a FilterList.
type Compiler struct {
	// Mode decides whether ranged filters become interval predicates.
	Mode ranges.Mode
	// Location anchors date values at local midnight.
	Location *time.Location
	// Now is the clock used for age cutoffs and default dates.
	Now func() time.Time
	// Comparisons overrides the interval lookup per field; RangeContainedBy otherwise.
	Comparisons map[string]domain.RangeComparison
	// AgeFields renames age-filtered fields to the birth-date column they compare against.
	AgeFields map[string]string
	Logger    *slog.Logger
}

func (c *Compiler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Compiler) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.UTC
}

func (c *Compiler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Compile pairs names with values by position. Names without a value are ignored.
func (c *Compiler) Compile(names, values []string) (*domain.FilterList, error) {
	list := &domain.FilterList{}
	set := ranges.NewSet()
	loc := c.location()

	for i, name := range names {
		if i >= len(values) {
			c.logger().Debug("filter name has no value, ignoring the rest", "filter_name", name, "index", i)
			break
		}

		d, err := ParseDescriptor(name, values[i])
		if err != nil {
			return nil, err
		}

		if d.Subtype == domain.RangeDatetime {
			typed, err := coerce.Values(d.Values, d.Part, loc)
			if err != nil {
				return nil, fmt.Errorf("filter %q: %w", name, err)
			}
			if err := set.AddDatetimePart(d.Field, d.Operator, d.Part, typed); err != nil {
				return nil, err
			}
			continue
		}

		if c.Mode == ranges.ModeNativeIntervals && d.Subtype != domain.RangeNone {
			typed, err := coerce.Values(d.Values, d.Subtype, loc)
			if err != nil {
				return nil, fmt.Errorf("filter %q: %w", name, err)
			}
			if err := set.AddRange(d.Field, d.Operator, d.Subtype, typed); err != nil {
				return nil, err
			}
			continue
		}

		if d.Subtype == domain.RangeAge {
			cutoff, err := coerce.Age(values[i], d.Operator.IsUpper(), c.now())
			if err != nil {
				return nil, fmt.Errorf("filter %q: %w", name, err)
			}
			list.Set(c.ageField(d.Field)+string(d.Operator), []any{cutoff})
			continue
		}

		typed, err := coerce.Values(d.Values, d.Subtype, loc)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}
		list.Set(d.Key(), typed)
	}

	if err := c.finish(list, set); err != nil {
		return nil, err
	}

	return list, nil
}

func (c *Compiler) finish(list *domain.FilterList, set *ranges.Set) error {
	if c.Mode != ranges.ModeNativeIntervals {
		for _, dt := range set.Datetimes() {
			stamps, err := dt.Stitch(c.now(), c.location())
			if err != nil {
				return err
			}
			if len(stamps) > 0 {
				list.Set(dt.Key(), stamps)
			}
		}
		return nil
	}

	if err := set.FoldDatetimes(c.now(), c.location()); err != nil {
		return err
	}

	for _, b := range set.Buckets() {
		intervals, err := b.Intervals()
		if err != nil {
			return fmt.Errorf("range filter %q: %w", b.Field, err)
		}
		if len(intervals) == 0 {
			continue
		}
		list.Set(b.Field+string(c.comparison(b.Field)), intervals)
	}
	return nil
}

func (c *Compiler) comparison(field string) domain.RangeComparison {
	if cmp, ok := c.Comparisons[field]; ok && cmp != "" {
		return cmp
	}
	return domain.RangeContainedBy
}

func (c *Compiler) ageField(field string) string {
	if alias, ok := c.AgeFields[field]; ok && alias != "" {
		return alias
	}
	return field
}
