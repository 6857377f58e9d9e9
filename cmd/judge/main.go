package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/programme-lv/judge/internal/engine"
	"github.com/programme-lv/judge/internal/environment"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/logging"
	"github.com/programme-lv/judge/internal/metrics"
	"github.com/programme-lv/judge/internal/problems"
	"github.com/urfave/cli/v3"
)

var env *environment.EnvConfig

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env = environment.ReadEnvConfig(nil)
	app := &cli.Command{
		Name:  "judge",
		Usage: "Compile, run and judge programs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: env.LogLevel, Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Value: env.LogFormat, Usage: "text or json"},
			&cli.StringFlag{Name: "work-dir", Value: env.WorkDir, Usage: "directory for per-run work directories"},
			&cli.StringFlag{Name: "problems-dir", Value: env.ProblemsDir, Usage: "problem store root"},
			&cli.StringFlag{Name: "languages-file", Value: env.LanguagesFile, Usage: "TOML file overriding language commands"},
			&cli.DurationFlag{Name: "time-limit", Value: env.TimeLimit, Usage: "default wall time limit"},
			&cli.IntFlag{Name: "memory-kib", Value: int(env.MemoryLimitKiB), Usage: "default memory limit"},
			&cli.IntFlag{Name: "max-parallel", Value: env.MaxParallel, Usage: "concurrent executions, 0 for unbounded"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			slog.SetDefault(logging.New(logging.Config{
				Level:  cmd.String("log-level"),
				Format: cmd.String("log-format"),
			}, os.Stderr))
			return ctx, nil
		},
		Commands: []*cli.Command{
			execCommand(),
			submitCommand(),
			probeCommand(),
			serveCommand(),
			behaveCommand(),
			languagesCommand(),
			problemsCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func engineConfig(cmd *cli.Command) engine.Config {
	cfg := env.Engine()
	cfg.WorkDir = cmd.String("work-dir")
	cfg.LanguagesFile = cmd.String("languages-file")
	cfg.Limits.TimeLimit = cmd.Duration("time-limit")
	cfg.Limits.MemoryLimitKiB = int64(cmd.Int("memory-kib"))
	cfg.MaxParallel = cmd.Int("max-parallel")
	return cfg
}

// openStore opens the problem directory. The returned store is nil when
// the directory does not exist.
func openStore(cmd *cli.Command) (*problems.DirStore, error) {
	dir := cmd.String("problems-dir")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return problems.NewDirStore(dir, slog.Default())
}

// newEngine builds an engine with an optional problem store. The returned
// function releases everything.
func newEngine(cmd *cli.Command, withStore bool, rec *metrics.Recorder) (*engine.Engine, func(), error) {
	var store problems.Store
	closeStore := func() {}
	if withStore {
		ds, err := openStore(cmd)
		if err != nil {
			return nil, nil, err
		}
		if ds == nil {
			return nil, nil, fmt.Errorf("problem directory %s does not exist", cmd.String("problems-dir"))
		}
		store = ds
		closeStore = ds.Close
	}

	e, err := engine.New(engineConfig(cmd), store, rec, slog.Default())
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return e, func() {
		if err := e.Close(); err != nil {
			slog.Warn("failed to remove work directories", "err", err)
		}
		closeStore()
	}, nil
}

// languageOf resolves the --lang flag, falling back to the source file
// extension.
func languageOf(flag, path string) (execution.LanguageID, error) {
	if flag != "" {
		return execution.ParseLanguage(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cpp", ".cc", ".cxx":
		return execution.Cpp, nil
	case ".py":
		return execution.Python, nil
	case ".java":
		return execution.Java, nil
	}
	return "", fmt.Errorf("cannot guess the language of %s, use --lang", path)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
