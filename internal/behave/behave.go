package behave

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/judge"
)

// SpecTest is a single test case in the behaviour file
type SpecTest struct {
	In  string `toml:"in"`
	Ans string `toml:"ans"`
}

// SpecLimits describes resource limits for a scenario request
type SpecLimits struct {
	TimeMs    int64 `toml:"time_ms"`
	MemoryKiB int64 `toml:"memory_kib"`
}

// SpecRequest represents a request block inside a scenario entry
type SpecRequest struct {
	Language string     `toml:"language"`
	Code     string     `toml:"code"`
	Tests    []SpecTest `toml:"tests"`
	Limits   SpecLimits `toml:"limits"`
}

// SpecExpect describes the verdict a scenario must end with
type SpecExpect struct {
	Verdict           string `toml:"verdict"`
	FailingTest       int    `toml:"failing_test"`
	TimeLimitExceeded bool   `toml:"time_limit_exceeded"`
}

type specScenario struct {
	Description string      `toml:"description"`
	Request     SpecRequest `toml:"request"`
	Expect      SpecExpect  `toml:"expect"`
}

type specRoot struct {
	Scenarios []specScenario `toml:"scenarios"`
}

var knownVerdicts = mapset.NewSet(
	string(judge.Accepted),
	string(judge.WrongAnswer),
	string(judge.RuntimeError),
	string(judge.CompileError),
)

// Case is a runnable scenario converted from TOML
type Case struct {
	Name       string
	Submission judge.Submission
	Tests      []execution.TestCase
	Expect     SpecExpect
}

// ParseFile reads a behaviour TOML file.
func ParseFile(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	return Parse(data)
}

// Parse converts behaviour TOML into runnable cases.
func Parse(data []byte) ([]Case, error) {
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cases := make([]Case, 0, len(root.Scenarios))
	for i, sc := range root.Scenarios {
		name := sc.Description
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		if !knownVerdicts.Contains(sc.Expect.Verdict) {
			return nil, fmt.Errorf("%s: unknown expected verdict %q", name, sc.Expect.Verdict)
		}
		lang, err := execution.ParseLanguage(sc.Request.Language)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		tests := make([]execution.TestCase, 0, len(sc.Request.Tests))
		for _, t := range sc.Request.Tests {
			tests = append(tests, execution.TestCase{
				Input:          []byte(t.In),
				ExpectedOutput: []byte(t.Ans),
			})
		}

		cases = append(cases, Case{
			Name: name,
			Submission: judge.Submission{
				Language: lang,
				Source:   []byte(sc.Request.Code),
				Limits: execution.Limits{
					TimeLimit:      time.Duration(sc.Request.Limits.TimeMs) * time.Millisecond,
					MemoryLimitKiB: sc.Request.Limits.MemoryKiB,
				},
			},
			Tests:  tests,
			Expect: sc.Expect,
		})
	}
	return cases, nil
}

// Judger runs a submission against explicit test cases.
type Judger interface {
	JudgeTests(ctx context.Context, sub judge.Submission, tests []execution.TestCase, gath judge.ResultGatherer) (judge.Verdict, error)
}

// Report is the outcome of one scenario.
type Report struct {
	Name     string
	Verdict  judge.Verdict
	Err      error
	Mismatch []string
}

func (r Report) Passed() bool {
	return r.Err == nil && len(r.Mismatch) == 0
}

func (r Report) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s: error: %v", r.Name, r.Err)
	case len(r.Mismatch) > 0:
		return fmt.Sprintf("%s: %s", r.Name, strings.Join(r.Mismatch, "; "))
	default:
		return fmt.Sprintf("%s: ok", r.Name)
	}
}

// Run judges every case in order. gath may be nil.
func Run(ctx context.Context, j Judger, cases []Case, gath judge.ResultGatherer) []Report {
	reports := make([]Report, 0, len(cases))
	for _, c := range cases {
		if ctx.Err() != nil {
			reports = append(reports, Report{Name: c.Name, Err: ctx.Err()})
			continue
		}
		v, err := j.JudgeTests(ctx, c.Submission, c.Tests, gath)
		rep := Report{Name: c.Name, Verdict: v, Err: err}
		if err == nil {
			rep.Mismatch = compare(c.Expect, v)
		}
		reports = append(reports, rep)
	}
	return reports
}

func compare(want SpecExpect, got judge.Verdict) []string {
	var diffs []string
	if want.Verdict != string(got.Outcome) {
		diffs = append(diffs, fmt.Sprintf("verdict: want %s, got %s (%s)", want.Verdict, got.Outcome, got.Message()))
	}
	if want.FailingTest != 0 && want.FailingTest != got.FailingIndex {
		diffs = append(diffs, fmt.Sprintf("failing test: want #%d, got #%d", want.FailingTest, got.FailingIndex))
	}
	if want.TimeLimitExceeded != got.TimeLimitExceeded {
		diffs = append(diffs, fmt.Sprintf("time limit exceeded: want %t, got %t", want.TimeLimitExceeded, got.TimeLimitExceeded))
	}
	return diffs
}
