package errors

import (
	"fmt"
)

// Stage names the pipeline step in which a project analysis failed.
type Stage string

const (
	StageSetup                  Stage = "Setup"
	StageResolvingDependencies  Stage = "ResolvingDependencies"
	StageInstallingDependencies Stage = "InstallingDependencies"
	StagePyreSetup              Stage = "PyreSetup"
	StageAnalysis               Stage = "Analysis"
	StageProcessing             Stage = "Processing"
	StageCleanup                Stage = "Cleanup"
)

// ParseStage maps a stage name reported by an analyzer plugin to a Stage.
// Unknown or empty names fall back to StageAnalysis.
func ParseStage(name string) Stage {
	switch s := Stage(name); s {
	case StageSetup, StageResolvingDependencies, StageInstallingDependencies,
		StagePyreSetup, StageAnalysis, StageProcessing, StageCleanup:
		return s
	default:
		return StageAnalysis
	}
}

// PipelineError is an analysis failure tagged with the stage it happened in.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// WithStage tags err with the pipeline stage. A nil err stays nil.
func WithStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{Stage: stage, Err: err}
}

// VersionMismatchError is returned when the analyzer output declares an unsupported file version.
type VersionMismatchError struct {
	Got      int
	Expected int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("cannot parse results due to version mismatch (expected %d, but got %d)", e.Expected, e.Got)
}

// ReconcileError is returned when a freshly computed issue does not correspond
// to exactly one issue of a stored report.
type ReconcileError struct {
	Callable string
	Matches  int
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("failed to find existing issue for %q: expected exactly one match, found %d", e.Callable, e.Matches)
}

// CommandError represents an error that occurred during command execution, with the process exit code.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance for the given error and exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Err:         err,
	}
}
