package termgath

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer"
	"github.com/programme-lv/judge/internal/judge"
)

// TerminalGatherer prints judging progress for humans.
type TerminalGatherer struct {
	out       io.Writer
	startedAt time.Time
	verbose   bool

	ok   *color.Color
	bad  *color.Color
	dim  *color.Color
	bold *color.Color
}

var _ judge.ResultGatherer = (*TerminalGatherer)(nil)

func New(verbose bool) *TerminalGatherer {
	return NewWithWriter(color.Output, verbose)
}

func NewWithWriter(out io.Writer, verbose bool) *TerminalGatherer {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalGatherer{
		out:       out,
		startedAt: time.Now(),
		verbose:   verbose,
		ok:        color.New(color.FgHiGreen, color.Bold),
		bad:       color.New(color.FgHiRed, color.Bold),
		dim:       color.New(color.Faint),
		bold:      color.New(color.Bold),
	}
}

func (t *TerminalGatherer) StartJob(language execution.LanguageID, testCount int) {
	t.startedAt = time.Now()
	t.bold.Fprintf(t.out, "== Judging %s submission on %d test case(s) ==\n", language, testCount)
}

func (t *TerminalGatherer) ReachTest(index int, input []byte, answer []byte) {
	fmt.Fprintf(t.out, "-> Test #%d ", index)
	if t.verbose {
		t.dim.Fprintf(t.out, "\n   in:  %s\n   ans: %s\n   ", oneLine(input), oneLine(answer))
	}
}

func (t *TerminalGatherer) IgnoreTest(index int) {
	t.dim.Fprintf(t.out, "-> Test #%d skipped\n", index)
}

func (t *TerminalGatherer) FinishTest(index int, result execution.Result, passed bool) {
	if passed {
		t.ok.Fprint(t.out, "OK")
	} else {
		t.bad.Fprint(t.out, "FAIL")
	}
	t.dim.Fprintf(t.out, " (%s, %dms)\n", result.Outcome, result.WallTime.Milliseconds())

	if passed && !t.verbose {
		return
	}
	data := gatherer.RuntimeData(result, true)
	for _, block := range []struct{ name, text string }{
		{"stdout", data.Stdout},
		{"stderr", data.Stderr},
		{"diagnostics", data.Diagnostics},
		{"error", data.Error},
	} {
		if block.text == "" {
			continue
		}
		t.dim.Fprintf(t.out, "   %s:\n", block.name)
		fmt.Fprintln(t.out, indent(block.text))
	}
}

func (t *TerminalGatherer) InternalError(msg string) {
	t.bad.Fprintf(t.out, "== Internal error: %s ==\n", msg)
}

func (t *TerminalGatherer) FinishJob(verdict judge.Verdict) {
	c := t.bad
	if verdict.Accepted() {
		c = t.ok
	}
	c.Fprintf(t.out, "== %s ==\n", verdict.Message())
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	t.dim.Fprintf(t.out, "finished in %s\n", dur)
}

func oneLine(b []byte) string {
	return gatherer.TrimStrToRect(strings.ReplaceAll(strings.TrimSpace(string(b)), "\n", "⏎"), 1, 60)
}

func indent(s string) string {
	return "     " + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n     ")
}
