// Package ranges merges lower/upper and date/time filter fragments into bound
// values and native interval values.
package ranges

import (
	"fmt"

	"github.com/rpattn/sfs/internal/domain"
)

// Mode selects how ranged filters reach the store. It is fixed at startup.
type Mode int

const (
	// ModeComparisons emits one >, >=, <, <= predicate per bound.
	ModeComparisons Mode = iota
	// ModeNativeIntervals emits one interval predicate per ranged field.
	ModeNativeIntervals
)

// Direction is the side of a range an operator bounds.
type Direction int

const (
	Lower Direction = iota
	Upper
)

// Bound characters as written in interval literals.
const (
	LowerInclusive byte = '['
	LowerExclusive byte = '('
	UpperInclusive byte = ']'
	UpperExclusive byte = ')'
)

// Bound classifies op into a direction and its bound character.
func Bound(op domain.ComparisonOperator) (Direction, byte, error) {
	switch op {
	case domain.OpGreaterOrEqual:
		return Lower, LowerInclusive, nil
	case domain.OpGreaterThan:
		return Lower, LowerExclusive, nil
	case domain.OpLessOrEqual:
		return Upper, UpperInclusive, nil
	case domain.OpLessThan:
		return Upper, UpperExclusive, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidBoundDirection, op)
	}
}

// OperatorFor returns the filter-name operator written for a bound character.
func OperatorFor(bound byte) (domain.ComparisonOperator, error) {
	switch bound {
	case LowerInclusive:
		return domain.OpGreaterOrEqual, nil
	case LowerExclusive:
		return domain.OpGreaterThan, nil
	case UpperInclusive:
		return domain.OpLessOrEqual, nil
	case UpperExclusive:
		return domain.OpLessThan, nil
	default:
		return "", fmt.Errorf("%w: bound %q", domain.ErrInvalidBoundDirection, bound)
	}
}
