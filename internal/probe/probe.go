package probe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/programme-lv/judge/internal/execution"
)

type Executor interface {
	Execute(ctx context.Context, req execution.Request) execution.Result
}

// SolutionFinder is the part of the problem store the prober needs.
type SolutionFinder interface {
	FindReferenceSolution(ctx context.Context, problemID string, lang execution.LanguageID) ([]byte, error)
}

// Prober runs a problem's reference solution on arbitrary input so that a
// user can see the expected output for it.
type Prober struct {
	solutions SolutionFinder
	exec      Executor
	limits    execution.Limits
	logger    *slog.Logger
}

func New(solutions SolutionFinder, exec Executor, limits execution.Limits, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		solutions: solutions,
		exec:      exec,
		limits:    limits,
		logger:    logger,
	}
}

// Probe returns the reference solution's result for input. A missing
// solution is reported as execution.ErrNoReferenceSolution and never as
// a compile or runtime failure.
func (p *Prober) Probe(ctx context.Context, problemID string, lang execution.LanguageID, input []byte) (execution.Result, error) {
	if !lang.Valid() {
		return execution.Result{}, fmt.Errorf("%w: unsupported language %q", execution.ErrValidation, lang)
	}

	src, err := p.solutions.FindReferenceSolution(ctx, problemID, lang)
	if err != nil {
		return execution.Result{}, err
	}
	if len(bytes.TrimSpace(src)) == 0 {
		return execution.Result{}, fmt.Errorf("%w: stored solution of %s in %s is empty",
			execution.ErrNoReferenceSolution, problemID, lang)
	}

	p.logger.Debug("probing reference solution", "problem", problemID, "language", lang)
	return p.exec.Execute(ctx, execution.Request{
		Language: lang,
		Source:   src,
		Stdin:    input,
		Limits:   p.limits,
	}), nil
}
