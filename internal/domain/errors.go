package domain

import (
	"errors"
	"fmt"
)

// ErrNoSourceData is returned when every selected source adapter failed to
// produce even synthetic output. Since adapters are designed to always
// degrade, hitting this usually means an adapter violated its contract.
var ErrNoSourceData = errors.New("no source returned trend data")

// PipelineError wraps any unexpected failure during a pipeline run. It is
// the one catch-all failure mode callers must handle besides ErrNoSourceData.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError wraps err with the stage it occurred in.
func NewPipelineError(stage string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}
