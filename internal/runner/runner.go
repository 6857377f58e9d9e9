package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/sandbox"
)

// Runner builds (when needed) and runs programs of a single language
// inside a box that already contains the source file.
type Runner interface {
	Language() execution.LanguageID
	SourceFilename() string
	Run(ctx context.Context, box *sandbox.Box, stdin []byte, limits execution.Limits) execution.Result
}

type Options struct {
	CompileTimeLimit time.Duration
	Logger           *slog.Logger
}

const (
	defaultCompileTimeLimit = 10 * time.Second
	compileOutputLimit      = 1 << 20
)

func (o Options) withDefaults() Options {
	if o.CompileTimeLimit <= 0 {
		o.CompileTimeLimit = defaultCompileTimeLimit
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// base holds what every language has in common: a command table and the
// translation of process metrics into execution results.
type base struct {
	spec LanguageSpec
	opts Options
}

func newBase(spec LanguageSpec, opts Options) base {
	return base{spec: spec, opts: opts.withDefaults()}
}

func (b *base) Language() execution.LanguageID {
	return b.spec.ID
}

func (b *base) SourceFilename() string {
	return b.spec.SourceFile
}

// compile runs the build step. It returns nil when the build succeeded and
// the compiled artifact exists.
func (b *base) compile(ctx context.Context, box *sandbox.Box) *execution.Result {
	c := sandbox.Constraints{
		WallTime:    b.opts.CompileTimeLimit,
		OutputBytes: compileOutputLimit,
	}
	m, err := box.Command(b.spec.CompileCmd, c).Run(ctx, nil)
	if err != nil {
		res := execution.InternalError(fmt.Errorf("run %s compiler: %w", b.spec.ID, err))
		return &res
	}
	b.opts.Logger.Debug("compiled",
		"box", box.ID(),
		"language", b.spec.ID,
		"exit", m.ExitCode,
		"wall_ms", m.WallTime.Milliseconds())

	var res execution.Result
	switch {
	case m.Canceled:
		res = execution.InternalError(fmt.Errorf("compilation canceled: %w", context.Cause(ctx)))
	case m.TimedOut:
		res = execution.CompileFailure("compilation time limit exceeded")
	case !m.Exited():
		res = execution.CompileFailure(diagnostics(m))
	case b.spec.CompiledFile != "" && !box.HasFile(b.spec.CompiledFile):
		res = execution.CompileFailure(b.missingArtifactMessage())
	default:
		return nil
	}
	return &res
}

func (b *base) missingArtifactMessage() string {
	return fmt.Sprintf("compiler did not produce %s", b.spec.CompiledFile)
}

// execute runs argv with the given limits and classifies the outcome.
func (b *base) execute(ctx context.Context, box *sandbox.Box, argv []string, stdin []byte, limits execution.Limits) execution.Result {
	c := sandbox.Constraints{
		WallTime:    limits.TimeLimit,
		MemoryKiB:   limits.MemoryLimitKiB,
		OutputBytes: limits.OutputLimitBytes,
	}
	m, err := box.Command(argv, c).Run(ctx, stdin)
	if err != nil {
		return execution.InternalError(fmt.Errorf("run %s program: %w", b.spec.ID, err))
	}
	b.opts.Logger.Debug("executed",
		"box", box.ID(),
		"language", b.spec.ID,
		"exit", m.ExitCode,
		"signal", m.ExitSignal,
		"wall_ms", m.WallTime.Milliseconds(),
		"cpu_ms", m.CPUTime.Milliseconds(),
		"rss_kib", m.MaxRSSKiB)
	return classify(ctx, m)
}

func classify(ctx context.Context, m *sandbox.Metrics) execution.Result {
	switch {
	case m.Canceled:
		return execution.InternalError(fmt.Errorf("execution canceled: %w", context.Cause(ctx)))
	case m.TimedOut:
		return execution.TimedOut(m.WallTime)
	case m.OutputExceeded:
		return execution.RuntimeFailure(exitCode(m), appendLine(string(m.Stderr), "output limit exceeded"))
	case m.ExitSignal != 0 || m.ExitCode != 0:
		return execution.RuntimeFailure(exitCode(m), string(m.Stderr))
	}
	// Warnings on stderr do not turn a clean exit into a failure.
	return execution.Success(string(m.Stdout), string(m.Stderr), m.WallTime)
}

// exitCode follows the shell convention for signaled processes.
func exitCode(m *sandbox.Metrics) int {
	if m.ExitSignal != 0 {
		return 128 + m.ExitSignal
	}
	return m.ExitCode
}

func diagnostics(m *sandbox.Metrics) string {
	out := strings.TrimRight(string(m.Stderr), "\n")
	if stdout := strings.TrimRight(string(m.Stdout), "\n"); stdout != "" {
		out = appendLine(out, stdout)
	}
	if out == "" {
		out = fmt.Sprintf("compiler exited with code %d", exitCode(m))
	}
	return out
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line
}
