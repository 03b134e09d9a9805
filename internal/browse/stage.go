package browse

import "fmt"

// Stage is how far a request got through the pipeline. Stages only advance.
type Stage int

const (
	StageInit Stage = iota
	StageSearchCompiled
	StageFiltersCompiled
	StageSortsCompiled
	StageExecuted
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageSearchCompiled:
		return "search_compiled"
	case StageFiltersCompiled:
		return "filters_compiled"
	case StageSortsCompiled:
		return "sorts_compiled"
	case StageExecuted:
		return "executed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError wraps a failure with the last stage the request completed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("browse failed after %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// pipeline tracks one request's progress.
type pipeline struct {
	stage Stage
}

func (p *pipeline) advance(next Stage) {
	if next != p.stage+1 {
		panic(fmt.Sprintf("browse: cannot move from %s to %s", p.stage, next))
	}
	p.stage = next
}

func (p *pipeline) fail(err error) error {
	return &StageError{Stage: p.stage, Err: err}
}
