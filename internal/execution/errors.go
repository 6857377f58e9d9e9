package execution

import "errors"

var (
	// ErrValidation marks requests rejected before any work was done.
	ErrValidation = errors.New("invalid request")

	ErrNoTestCases         = errors.New("no test cases")
	ErrNoReferenceSolution = errors.New("no reference solution")
)
