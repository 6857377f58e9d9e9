package runner

import (
	"context"

	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/sandbox"
)

type cppRunner struct {
	base
}

func NewCpp(spec LanguageSpec, opts Options) Runner {
	return &cppRunner{base: newBase(spec, opts)}
}

func (r *cppRunner) Run(ctx context.Context, box *sandbox.Box, stdin []byte, limits execution.Limits) execution.Result {
	if failed := r.compile(ctx, box); failed != nil {
		return *failed
	}
	c := sandbox.Constraints{MemoryKiB: limits.MemoryLimitKiB}
	return r.execute(ctx, box, c.WithAddressSpaceLimit(r.spec.ExecCmd), stdin, limits)
}
