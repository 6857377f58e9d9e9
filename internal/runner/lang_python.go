package runner

import (
	"context"

	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/sandbox"
)

type pythonRunner struct {
	base
}

func NewPython(spec LanguageSpec, opts Options) Runner {
	return &pythonRunner{base: newBase(spec, opts)}
}

func (r *pythonRunner) Run(ctx context.Context, box *sandbox.Box, stdin []byte, limits execution.Limits) execution.Result {
	if len(r.spec.CompileCmd) > 0 {
		if failed := r.compile(ctx, box); failed != nil {
			return *failed
		}
	}
	c := sandbox.Constraints{MemoryKiB: limits.MemoryLimitKiB}
	return r.execute(ctx, box, c.WithAddressSpaceLimit(r.spec.ExecCmd), stdin, limits)
}
