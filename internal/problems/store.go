package problems

import (
	"context"
	"errors"

	"github.com/programme-lv/judge/internal/execution"
)

var ErrProblemNotFound = errors.New("problem not found")

type Problem struct {
	ID         string
	Name       string
	Difficulty string
	Statement  string
	// Languages that have a stored reference solution.
	Solutions []execution.LanguageID
}

// Store is the read-only view of problem data the engine needs.
type Store interface {
	FindProblemByID(ctx context.Context, id string) (*Problem, error)
	// FindReferenceSolution returns execution.ErrNoReferenceSolution when
	// the problem has no solution in lang.
	FindReferenceSolution(ctx context.Context, id string, lang execution.LanguageID) ([]byte, error)
	FindTestCases(ctx context.Context, id string) ([]execution.TestCase, error)
}
