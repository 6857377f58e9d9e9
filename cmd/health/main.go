package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/judge/internal/engine"
	"github.com/programme-lv/judge/internal/environment"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/logging"
	"golang.org/x/sync/errgroup"
)

const helloOutput = "Hello, World!"

type feedbackRow struct {
	unit    string
	health  int // 0 - OK, 1 - Warning, 2 - Error
	message string
}

func main() {
	env := environment.ReadEnvConfig(nil)
	logger := logging.New(logging.Config{Level: env.LogLevel, Format: env.LogFormat}, os.Stderr)

	feedback := make([]feedbackRow, 0)

	workRow := ensureWorkDirOk(env.WorkDir)
	feedback = append(feedback, workRow)

	if workRow.health != 2 {
		feedback = append(feedback, ensureLanguagesOk(env.Engine(), logger)...)
	}

	outputFeedback(feedback)
	for _, row := range feedback {
		if row.health == 2 {
			os.Exit(1)
		}
	}
}

func ensureWorkDirOk(dir string) feedbackRow {
	row := feedbackRow{unit: "Work directory"}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		row.health = 2
		row.message = err.Error()
		return row
	}
	probe, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		row.health = 2
		row.message = err.Error()
		return row
	}
	probe.Close()
	os.Remove(probe.Name())
	row.message = dir
	return row
}

// ensureLanguagesOk runs every language's hello world program concurrently.
func ensureLanguagesOk(cfg engine.Config, logger *slog.Logger) []feedbackRow {
	e, err := engine.New(cfg, nil, nil, logger)
	if err != nil {
		return []feedbackRow{{unit: "Languages", health: 2, message: err.Error()}}
	}
	defer e.Close()

	specs := e.Languages()
	rows := make([]feedbackRow, len(specs))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var g errgroup.Group
	for i, spec := range specs {
		g.Go(func() error {
			logger.Info("running hello world", "language", spec.ID)
			res := e.Execute(ctx, execution.Request{
				Language: spec.ID,
				Source:   []byte(spec.HelloWorld),
				Limits:   execution.Limits{TimeLimit: 10 * time.Second},
			})
			rows[i] = languageRow(spec.Name, res)
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func languageRow(name string, res execution.Result) feedbackRow {
	row := feedbackRow{unit: name}
	switch {
	case !res.IsSuccess():
		row.health = 2
		row.message = res.Summary()
		if res.Diagnostics != "" {
			row.message += ": " + firstLine(res.Diagnostics)
		} else if res.Stderr != "" {
			row.message += ": " + firstLine(res.Stderr)
		}
	case strings.TrimSpace(res.Stdout) != helloOutput:
		row.health = 1
		row.message = fmt.Sprintf("unexpected output %q", firstLine(res.Stdout))
	default:
		row.message = fmt.Sprintf("%s in %s", helloOutput, res.WallTime.Round(time.Millisecond))
	}
	return row
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func outputFeedback(feedback []feedbackRow) {
	renderFeedback(os.Stdout, feedback)
}

var healthColors = map[int]text.Colors{
	0: {text.FgHiGreen},
	1: {text.FgHiYellow},
	2: {text.FgHiRed},
}

var healthNames = map[int]string{
	0: "OKAY",
	1: "WARN",
	2: "ERROR",
}

func renderFeedback(w io.Writer, feedback []feedbackRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Unit", "Health", "Message"})
	for _, row := range feedback {
		t.AppendRow(table.Row{row.unit, row.health, row.message})
	}
	t.SetStyle(table.StyleColoredDark)
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Name: "Health",
			Transformer: func(v interface{}) string {
				health, _ := v.(int)
				return healthColors[health].Sprint(healthNames[health])
			},
			Align: text.AlignCenter,
		},
	})
	t.Render()
}
