package runner

import (
	"context"
	"fmt"
	"slices"

	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/sandbox"
)

type javaRunner struct {
	base
}

func NewJava(spec LanguageSpec, opts Options) Runner {
	return &javaRunner{base: newBase(spec, opts)}
}

func (r *javaRunner) Run(ctx context.Context, box *sandbox.Box, stdin []byte, limits execution.Limits) execution.Result {
	if failed := r.compile(ctx, box); failed != nil {
		if failed.Outcome == execution.OutcomeCompileFailure && failed.Diagnostics == r.missingArtifactMessage() {
			failed.Diagnostics = "class Main not found: the entry point must be declared as public class Main"
		}
		return *failed
	}

	// The JVM reserves far more address space than it uses, so the memory
	// limit goes to the heap instead of ulimit.
	argv := slices.Clone(r.spec.ExecCmd)
	if limits.MemoryLimitKiB > 0 && len(argv) > 0 {
		heap := fmt.Sprintf("-Xmx%dm", max(limits.MemoryLimitKiB/1024, 16))
		argv = slices.Insert(argv, 1, heap)
	}
	return r.execute(ctx, box, argv, stdin, limits)
}
