package behave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/programme-lv/judge/internal/behave"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarios = `
[[scenarios]]
description = "hello world"
[scenarios.request]
language = "py"
code = "print('hi')"
[[scenarios.request.tests]]
in = ""
ans = "hi"
[scenarios.request.limits]
time_ms = 500
[scenarios.expect]
verdict = "accepted"

[[scenarios]]
description = "slow loop"
[scenarios.request]
language = "cpp"
code = "int main(){for(;;);}"
[[scenarios.request.tests]]
in = "1"
ans = "1"
[scenarios.expect]
verdict = "runtime_error"
failing_test = 1
time_limit_exceeded = true
`

func TestParse(t *testing.T) {
	cases, err := behave.Parse([]byte(scenarios))
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "hello world", cases[0].Name)
	assert.Equal(t, execution.Python, cases[0].Submission.Language)
	assert.Equal(t, 500*time.Millisecond, cases[0].Submission.Limits.TimeLimit)
	require.Len(t, cases[0].Tests, 1)
	assert.Equal(t, []byte("hi"), cases[0].Tests[0].ExpectedOutput)

	assert.Equal(t, execution.Cpp, cases[1].Submission.Language)
	assert.True(t, cases[1].Expect.TimeLimitExceeded)
}

func TestParseRejectsUnknownVerdict(t *testing.T) {
	_, err := behave.Parse([]byte(`
[[scenarios]]
description = "bad"
[scenarios.request]
language = "cpp"
[scenarios.expect]
verdict = "presentation_error"
`))
	require.ErrorContains(t, err, "presentation_error")
}

func TestParseRejectsUnknownLanguage(t *testing.T) {
	_, err := behave.Parse([]byte(`
[[scenarios]]
[scenarios.request]
language = "cobol"
[scenarios.expect]
verdict = "accepted"
`))
	require.ErrorIs(t, err, execution.ErrValidation)
}

type fakeJudger struct {
	verdicts []judge.Verdict
	err      error
	calls    int
}

func (f *fakeJudger) JudgeTests(_ context.Context, _ judge.Submission, _ []execution.TestCase, _ judge.ResultGatherer) (judge.Verdict, error) {
	v := f.verdicts[f.calls]
	f.calls++
	return v, f.err
}

func TestRunComparesVerdicts(t *testing.T) {
	cases, err := behave.Parse([]byte(scenarios))
	require.NoError(t, err)

	j := &fakeJudger{verdicts: []judge.Verdict{
		{Outcome: judge.Accepted},
		{Outcome: judge.RuntimeError, FailingIndex: 1},
	}}
	reports := behave.Run(context.Background(), j, cases, nil)

	require.Len(t, reports, 2)
	assert.True(t, reports[0].Passed())
	assert.False(t, reports[1].Passed())
	assert.Contains(t, reports[1].String(), "time limit exceeded")
}

func TestRunReportsErrors(t *testing.T) {
	cases, err := behave.Parse([]byte(scenarios))
	require.NoError(t, err)

	j := &fakeJudger{verdicts: make([]judge.Verdict, 2), err: errors.New("boom")}
	reports := behave.Run(context.Background(), j, cases, nil)

	for _, r := range reports {
		assert.False(t, r.Passed())
		assert.ErrorContains(t, r.Err, "boom")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cases, err := behave.Parse([]byte(scenarios))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j := &fakeJudger{}
	reports := behave.Run(ctx, j, cases, nil)

	assert.Equal(t, 0, j.calls)
	require.Len(t, reports, 2)
	assert.ErrorIs(t, reports[0].Err, context.Canceled)
}

func TestParseFile(t *testing.T) {
	cases, err := behave.ParseFile("testdata/scenarios.toml")
	require.NoError(t, err)
	require.Len(t, cases, 4)

	assert.Equal(t, execution.Java, cases[2].Submission.Language)
	assert.Equal(t, "compile_error", cases[2].Expect.Verdict)
	assert.Equal(t, 300*time.Millisecond, cases[3].Submission.Limits.TimeLimit)

	_, err = behave.ParseFile("testdata/missing.toml")
	require.Error(t, err)
}
