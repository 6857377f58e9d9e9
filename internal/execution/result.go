package execution

import (
	"errors"
	"fmt"
	"time"
)

type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeCompileFailure Outcome = "compile_failure"
	OutcomeRuntimeFailure Outcome = "runtime_failure"
	OutcomeTimedOut       Outcome = "timed_out"
	OutcomeInternalError  Outcome = "internal_error"
)

// Result is the outcome of one execution. Which fields are meaningful
// depends on Outcome:
//
//	success          Stdout, Stderr, ExitCode (always 0), WallTime
//	compile_failure  Diagnostics
//	runtime_failure  ExitCode, Stderr
//	timed_out        WallTime
//	internal_error   Cause
type Result struct {
	Outcome Outcome

	Stdout   string
	Stderr   string
	ExitCode int
	WallTime time.Duration

	Diagnostics string
	Cause       error
}

func Success(stdout, stderr string, wall time.Duration) Result {
	return Result{Outcome: OutcomeSuccess, Stdout: stdout, Stderr: stderr, WallTime: wall}
}

func CompileFailure(diagnostics string) Result {
	return Result{Outcome: OutcomeCompileFailure, Diagnostics: diagnostics}
}

func RuntimeFailure(exitCode int, stderr string) Result {
	return Result{Outcome: OutcomeRuntimeFailure, ExitCode: exitCode, Stderr: stderr}
}

func TimedOut(wall time.Duration) Result {
	return Result{Outcome: OutcomeTimedOut, WallTime: wall}
}

func InternalError(cause error) Result {
	if cause == nil {
		cause = errors.New("unknown internal error")
	}
	return Result{Outcome: OutcomeInternalError, Cause: cause}
}

// Invalid reports a request rejected during validation.
func Invalid(cause error) Result {
	if !errors.Is(cause, ErrValidation) {
		cause = fmt.Errorf("%w: %w", ErrValidation, cause)
	}
	return InternalError(cause)
}

func (r Result) IsSuccess() bool {
	return r.Outcome == OutcomeSuccess
}

// IsValidationError reports whether the request was rejected before running.
func (r Result) IsValidationError() bool {
	return r.Outcome == OutcomeInternalError && errors.Is(r.Cause, ErrValidation)
}

// Summary is a short human readable description of a non-successful result.
func (r Result) Summary() string {
	switch r.Outcome {
	case OutcomeCompileFailure:
		return "compilation failed"
	case OutcomeRuntimeFailure:
		return fmt.Sprintf("exited with code %d", r.ExitCode)
	case OutcomeTimedOut:
		return "time limit exceeded"
	case OutcomeInternalError:
		return r.Cause.Error()
	}
	return ""
}
