package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilterValue reports a filter value that could not be coerced to its declared kind.
	ErrInvalidFilterValue = errors.New("invalid filter value")
	// ErrUnsupportedRangeType reports a range subtype with no interval representation.
	ErrUnsupportedRangeType = errors.New("unsupported range type")
	// ErrInvalidBoundDirection reports an operator that is neither a lower nor an upper bound.
	ErrInvalidBoundDirection = errors.New("invalid bound direction")
	// ErrDependencyResolution reports a searchable dependency missing from the registry.
	ErrDependencyResolution = errors.New("dependency resolution failed")
	// ErrNoDefaultSort reports a view whose sort list resolved to nothing at all.
	ErrNoDefaultSort = errors.New("the default sort by is not in the view's sorts list")
	// ErrQueryConstruction reports a predicate the store refused to build.
	ErrQueryConstruction = errors.New("query construction failed")
	// ErrPageNotFound reports a page number past the end of the result set.
	ErrPageNotFound = errors.New("page does not exist")
)

// DependencyResolutionError names the dependency that could not be resolved.
type DependencyResolutionError struct {
	Module string
	Name   string
}

func (e *DependencyResolutionError) Error() string {
	return fmt.Sprintf("import failed: check module path of %s and class name of %s", e.Module, e.Name)
}

func (e *DependencyResolutionError) Unwrap() error {
	return ErrDependencyResolution
}

// PageNotFoundError carries the requested page alongside ErrPageNotFound.
type PageNotFoundError struct {
	Page string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %s does not exist", e.Page)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}
