package respbuilder_test

import (
	"testing"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer/respbuilder"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderCollectsVerdict(t *testing.T) {
	b := respbuilder.New("job-1")
	b.StartJob(execution.Python, 3)
	b.ReachTest(1, []byte("1"), []byte("1"))
	b.FinishTest(1, execution.Success("1\n", "", 0), true)
	b.ReachTest(2, []byte("2"), []byte("2"))
	b.FinishTest(2, execution.Success("3\n", "", 0), false)
	b.IgnoreTest(3)
	b.FinishJob(judge.Verdict{Outcome: judge.WrongAnswer, FailingIndex: 2})

	resp, ok := b.Response()
	require.True(t, ok)
	assert.Equal(t, "job-1", resp.JobUuid)
	assert.Equal(t, api.WrongAnswer, resp.Verdict)
	assert.Equal(t, 2, resp.FailingTest)
	assert.Equal(t, "Wrong Answer on test case #2", resp.Message)
	require.Len(t, resp.TestResults, 3)
	assert.True(t, resp.TestResults[0].Passed)
	assert.Equal(t, "3\n", resp.TestResults[1].Run.Stdout)
	assert.True(t, resp.TestResults[2].Ignored)
}

func TestBuilderWithoutVerdict(t *testing.T) {
	b := respbuilder.New("job-2")
	b.InternalError("no test cases")

	resp, ok := b.Response()
	require.False(t, ok)
	assert.Equal(t, "no test cases", resp.Message)
	assert.Empty(t, resp.Verdict)
}
