package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/sfs/internal/domain"
)

func TestAddRangeFilter_Names(t *testing.T) {
	view, _ := newTestView(t, Config{})

	require.NoError(t, view.AddRangeFilter("Height", "height", domain.RangeNumber, "0.5", "[)", ""))
	require.NoError(t, view.AddRangeFilter("Joined", "joined", domain.RangeDatetime, "", "(]", ""))
	require.NoError(t, view.AddRangeFilter("Age", "age", domain.RangeAge, "", "", ""))

	controls := view.Filters()
	require.Len(t, controls, 3)

	assert.Equal(t, FilterControl{
		Kind:       ControlRange,
		Label:      "Height",
		Field:      "height",
		InputType:  "number",
		Step:       "0.5",
		LowerNames: []string{"height__gte_number"},
		UpperNames: []string{"height__lt_number"},
	}, controls[0])

	assert.Empty(t, controls[1].InputType)
	assert.Equal(t, []string{"joined__gt_datetime_date", "joined__gt_datetime_time"}, controls[1].LowerNames)
	assert.Equal(t, []string{"joined__lte_datetime_date", "joined__lte_datetime_time"}, controls[1].UpperNames)

	assert.Equal(t, "number", controls[2].InputType)
	assert.Equal(t, "1", controls[2].Step)
	assert.Equal(t, []string{"age__gte_age"}, controls[2].LowerNames)
	assert.Equal(t, []string{"age__lte_age"}, controls[2].UpperNames)

	assert.Equal(t, []string{
		"height__gte_number", "height__lt_number",
		"joined__gt_datetime_date", "joined__gt_datetime_time",
		"joined__lte_datetime_date", "joined__lte_datetime_time",
		"age__gte_age", "age__lte_age",
	}, view.FilterNames())
}

func TestAddRangeFilter_Rejects(t *testing.T) {
	view, _ := newTestView(t, Config{})

	err := view.AddRangeFilter("H", "height", domain.RangeNumber, "", "][", "")
	assert.ErrorIs(t, err, domain.ErrInvalidBoundDirection)

	err = view.AddRangeFilter("H", "height", domain.RangeNumber, "", "[", "")
	assert.ErrorIs(t, err, domain.ErrInvalidBoundDirection)

	err = view.AddRangeFilter("H", "height", domain.RangeSubtype("furlong"), "", "[]", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedRangeType)

	err = view.AddRangeFilter("H", "height", domain.RangeNumber, "", "[]", domain.RangeOverlap)
	assert.ErrorIs(t, err, domain.ErrUnsupportedRangeType, "comparisons need native ranges")

	assert.Empty(t, view.Filters())
}

func TestAddRangeFilter_ComparisonOverride(t *testing.T) {
	view, _ := newTestView(t, Config{NativeRanges: true})

	require.NoError(t, view.AddRangeFilter("H", "height", domain.RangeNumber, "", "[]", domain.RangeOverlap))
	assert.Equal(t, domain.RangeOverlap, view.comparisons["height"])

	err := view.AddRangeFilter("H", "height", domain.RangeNumber, "", "[]", domain.RangeComparison("__sideways"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedRangeType)
}

func TestNewView_FilterSpecs(t *testing.T) {
	view, _ := newTestView(t, Config{Filters: []FilterSpec{
		{Kind: ControlSelect, Label: "City", Field: "city__name", Options: []Option{{Value: "Oslo", Label: "Oslo"}}},
		{Kind: ControlRange, Label: "Height", Field: "height", Type: domain.RangeNumber},
	}})
	assert.Equal(t, []string{"city__name", "height__gte_number", "height__lte_number"}, view.FilterNames())
	assert.Equal(t, ControlSelect, view.Filters()[0].Kind)

	_, err := NewView(Config{Table: "people", Filters: []FilterSpec{{Kind: "slider"}}}, Deps{Store: seededStore(t)})
	assert.Error(t, err)

	_, err = NewView(Config{Name: "x"}, Deps{Store: seededStore(t)})
	assert.Error(t, err)
}
