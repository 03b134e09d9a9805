package browse

import (
	"fmt"

	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/ranges"
)

// ControlKind tells the presentation layer which input a filter needs.
type ControlKind string

const (
	ControlSelect ControlKind = "select"
	ControlRange  ControlKind = "range"
)

// Option is one choice of a select filter.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// FilterSpec declares a filter control in the views file.
type FilterSpec struct {
	Kind       ControlKind            `yaml:"kind"`
	Label      string                 `yaml:"label"`
	Field      string                 `yaml:"field"`
	Options    []Option               `yaml:"options"`
	Type       domain.RangeSubtype    `yaml:"type"`
	Step       string                 `yaml:"step"`
	Bounds     string                 `yaml:"bounds"`
	Comparison domain.RangeComparison `yaml:"comparison"`
}

// FilterControl describes one filter input without any markup. Range controls
// list the wire filter names for each side; datetime ranges carry a date and a
// time name per side.
type FilterControl struct {
	Kind       ControlKind `json:"kind"`
	Label      string      `json:"label"`
	Field      string      `json:"field"`
	Options    []Option    `json:"options,omitempty"`
	InputType  string      `json:"input_type,omitempty"`
	Step       string      `json:"step,omitempty"`
	LowerNames []string    `json:"lower_names,omitempty"`
	UpperNames []string    `json:"upper_names,omitempty"`
}

func (v *View) addFilter(spec FilterSpec) error {
	switch spec.Kind {
	case ControlSelect, "":
		v.AddSelectFilter(spec.Label, spec.Field, spec.Options)
		return nil
	case ControlRange:
		return v.AddRangeFilter(spec.Label, spec.Field, spec.Type, spec.Step, spec.Bounds, spec.Comparison)
	default:
		return fmt.Errorf("filter %q: unknown kind %q", spec.Field, spec.Kind)
	}
}

// AddSelectFilter registers a multi-select filter on field. Call it before the
// view serves requests.
func (v *View) AddSelectFilter(label, field string, options []Option) {
	v.controls = append(v.controls, FilterControl{
		Kind:    ControlSelect,
		Label:   label,
		Field:   field,
		Options: options,
	})
	v.filterNames = append(v.filterNames, field)
}

// AddRangeFilter registers a lower/upper pair of inputs on field. bounds picks
// the operators, "[" or "(" for the lower side and "]" or ")" for the upper.
// comparison overrides the interval lookup and needs native ranges.
func (v *View) AddRangeFilter(label, field string, kind domain.RangeSubtype, step, bounds string, comparison domain.RangeComparison) error {
	if step == "" {
		step = "1"
	}
	if bounds == "" {
		bounds = "[]"
	}
	if len(bounds) != 2 {
		return fmt.Errorf("%w: bounds %q must be two characters", domain.ErrInvalidBoundDirection, bounds)
	}
	lowerOp, err := ranges.OperatorFor(bounds[0])
	if err != nil || !lowerOp.IsLower() {
		return fmt.Errorf("%w: invalid lower bound of %c", domain.ErrInvalidBoundDirection, bounds[0])
	}
	upperOp, err := ranges.OperatorFor(bounds[1])
	if err != nil || !upperOp.IsUpper() {
		return fmt.Errorf("%w: invalid upper bound of %c", domain.ErrInvalidBoundDirection, bounds[1])
	}
	if _, err := ranges.KindFor(kind); err != nil {
		return err
	}

	if comparison != "" {
		if !v.cfg.NativeRanges {
			return fmt.Errorf("%w: %s comparison on %q requires native ranges", domain.ErrUnsupportedRangeType, comparison, field)
		}
		if !comparison.Valid() {
			return fmt.Errorf("%w: unknown comparison %q on %q", domain.ErrUnsupportedRangeType, comparison, field)
		}
		v.comparisons[field] = comparison
	}

	lower := field + string(lowerOp) + "_" + string(kind)
	upper := field + string(upperOp) + "_" + string(kind)

	control := FilterControl{
		Kind:      ControlRange,
		Label:     label,
		Field:     field,
		InputType: string(kind),
		Step:      step,
	}
	switch kind {
	case domain.RangeDatetime:
		control.InputType = ""
		control.LowerNames = []string{lower + "_" + string(domain.RangeDate), lower + "_" + string(domain.RangeTime)}
		control.UpperNames = []string{upper + "_" + string(domain.RangeDate), upper + "_" + string(domain.RangeTime)}
	case domain.RangeAge:
		control.InputType = string(domain.RangeNumber)
		fallthrough
	default:
		control.LowerNames = []string{lower}
		control.UpperNames = []string{upper}
	}

	v.controls = append(v.controls, control)
	v.filterNames = append(v.filterNames, control.LowerNames...)
	v.filterNames = append(v.filterNames, control.UpperNames...)
	return nil
}

// Filters returns the registered filter controls.
func (v *View) Filters() []FilterControl {
	return append([]FilterControl(nil), v.controls...)
}

// FilterNames returns every wire filter name the controls produce.
func (v *View) FilterNames() []string {
	return append([]string(nil), v.filterNames...)
}
