package attrstrip

import (
	"errors"
	"fmt"
)

// ErrParseFailure is reported when the input cannot be parsed at all.
// Check with errors.Is(err, attrstrip.ErrParseFailure).
var ErrParseFailure = errors.New("failed to parse HTML")

// ErrorKind separates failures the caller sees from those recovered locally.
type ErrorKind string

const (
	// KindParse means no tree could be built from the input.
	KindParse ErrorKind = "parse_failure"

	// KindStage means an optional stage could not complete and its input was
	// passed on unchanged.
	KindStage ErrorKind = "stage_failure"
)

// PipelineError describes a failure inside a run.
type PipelineError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Stage)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches ErrParseFailure for parse failures.
func (e *PipelineError) Is(target error) bool {
	return target == ErrParseFailure && e.Kind == KindParse
}

func newParseError(err error) *PipelineError {
	return &PipelineError{Kind: KindParse, Stage: StageParse, Err: err}
}

func newStageError(stage string, err error) *PipelineError {
	return &PipelineError{Kind: KindStage, Stage: stage, Err: err}
}

// recovered turns a recovered panic value into an error.
func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
