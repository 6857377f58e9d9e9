package judge_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/programme-lv/judge/internal/judge/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var helloSubmission = judge.Submission{
	Language: execution.Python,
	Source:   []byte("print('Hello, ' + input())\n"),
}

func cases(pairs ...string) []execution.TestCase {
	tests := make([]execution.TestCase, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		tests = append(tests, execution.TestCase{
			Input:          []byte(pairs[i]),
			ExpectedOutput: []byte(pairs[i+1]),
		})
	}
	return tests
}

// greeter answers "Hello, <input>" like a correct solution would.
func greeter(_ context.Context, req execution.Request) execution.Result {
	return execution.Success("Hello, "+strings.TrimSpace(string(req.Stdin))+"\n", "", time.Millisecond)
}

func TestHelloWorldAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(greeter).Times(2)

	v, err := judge.New(exec, nil, nil).Judge(context.Background(), helloSubmission,
		cases("World", "Hello, World", "Goodbye", "Hello, Goodbye"), nil)
	require.NoError(t, err)
	assert.Equal(t, judge.Accepted, v.Outcome)
	assert.Equal(t, 0, v.FailingIndex)
	assert.Equal(t, "All test cases passed!", v.Message())
}

func TestWrongAnswerOnFirstCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(greeter).Times(1)

	v, err := judge.New(exec, nil, nil).Judge(context.Background(), helloSubmission,
		cases("World", "Goodbye, World", "Goodbye", "Hello, Goodbye"), nil)
	require.NoError(t, err)
	assert.Equal(t, judge.WrongAnswer, v.Outcome)
	assert.Equal(t, 1, v.FailingIndex)
	assert.Equal(t, "Wrong Answer on test case #1", v.Message())
}

func TestShortCircuitAfterFirstFailure(t *testing.T) {
	for _, m := range []int{0, 1, 3, 6} {
		t.Run(fmt.Sprintf("fails after %d", m), func(t *testing.T) {
			const total = 8
			pairs := make([]string, 0, 2*total)
			for i := range total {
				answer := fmt.Sprintf("Hello, %d", i)
				if i == m {
					answer = "something else"
				}
				pairs = append(pairs, fmt.Sprint(i), answer)
			}

			ctrl := gomock.NewController(t)
			exec := mocks.NewMockExecutor(ctrl)
			exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(greeter).Times(m + 1)

			v, err := judge.New(exec, nil, nil).Judge(context.Background(), helloSubmission, cases(pairs...), nil)
			require.NoError(t, err)
			assert.Equal(t, judge.WrongAnswer, v.Outcome)
			assert.Equal(t, m+1, v.FailingIndex)
		})
	}
}

func TestOutputComparisonTrimsOnlyOuterWhitespace(t *testing.T) {
	for _, tc := range []struct {
		stdout, expected string
		ok               bool
	}{
		{"42\n", "42", true},
		{"  42 \n\n", "\n42", true},
		{"4 2\n", "42", false},
		{"1\n2\n", "1 2", false},
		{"1\r\n", "1", true},
	} {
		ctrl := gomock.NewController(t)
		exec := mocks.NewMockExecutor(ctrl)
		exec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(execution.Success(tc.stdout, "", 0))

		v, err := judge.New(exec, nil, nil).Judge(context.Background(), helloSubmission, cases("", tc.expected), nil)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, v.Accepted(), "stdout %q expected %q", tc.stdout, tc.expected)
	}
}

func TestFailureOutcomesMapToVerdicts(t *testing.T) {
	for _, tc := range []struct {
		name    string
		result  execution.Result
		outcome judge.Outcome
		tle     bool
		message string
	}{
		{"compile failure", execution.CompileFailure("main.cpp:1: error"), judge.CompileError, false, "Compilation Error on test case #2"},
		{"runtime failure", execution.RuntimeFailure(1, "Traceback: ZeroDivisionError\n"), judge.RuntimeError, false, "Runtime Error on test case #2: Traceback: ZeroDivisionError"},
		{"timed out", execution.TimedOut(2 * time.Second), judge.RuntimeError, true, "Time Limit Exceeded on test case #2"},
		{"internal error", execution.InternalError(errors.New("disk full")), judge.RuntimeError, false, "Runtime Error on test case #2: disk full"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			exec := mocks.NewMockExecutor(ctrl)
			gomock.InOrder(
				exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(greeter),
				exec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(tc.result),
			)

			v, err := judge.New(exec, nil, nil).Judge(context.Background(), helloSubmission,
				cases("a", "Hello, a", "b", "Hello, b", "c", "Hello, c"), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.outcome, v.Outcome)
			assert.Equal(t, 2, v.FailingIndex)
			assert.Equal(t, tc.tle, v.TimeLimitExceeded)
			assert.Equal(t, tc.message, v.Message())
		})
	}
}

func TestRequestsCarryInputAndLimits(t *testing.T) {
	sub := helloSubmission
	sub.Limits = execution.Limits{TimeLimit: time.Second}

	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req execution.Request) execution.Result {
			assert.Equal(t, execution.Python, req.Language)
			assert.Equal(t, sub.Source, req.Source)
			assert.Equal(t, time.Second, req.Limits.TimeLimit)
			assert.Equal(t, "World", string(req.Stdin))
			return greeter(ctx, req)
		})

	_, err := judge.New(exec, nil, nil).Judge(context.Background(), sub, cases("World", "Hello, World"), nil)
	require.NoError(t, err)
}

func TestRequestLevelErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	j := judge.New(exec, nil, nil)

	_, err := j.Judge(context.Background(), helloSubmission, nil, nil)
	require.ErrorIs(t, err, execution.ErrNoTestCases)

	blank := judge.Submission{Language: execution.Cpp, Source: []byte("  ")}
	_, err = j.Judge(context.Background(), blank, cases("1", "1"), nil)
	require.ErrorIs(t, err, execution.ErrValidation)

	unknown := judge.Submission{Language: "cobol", Source: []byte("DISPLAY 'HI'")}
	_, err = j.Judge(context.Background(), unknown, cases("1", "1"), nil)
	require.ErrorIs(t, err, execution.ErrValidation)
}

func TestValidationResultFromExecutorIsRequestError(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(execution.Invalid(errors.New("no runner registered for language \"java\""))).Times(1)

	sub := judge.Submission{Language: execution.Java, Source: []byte("public class Main {}")}
	_, err := judge.New(exec, nil, nil).Judge(context.Background(), sub, cases("1", "1", "2", "2"), nil)
	require.ErrorIs(t, err, execution.ErrValidation)
}

func TestCancellationIsRequestError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, execution.Request) execution.Result {
			cancel()
			return execution.InternalError(context.Canceled)
		}).Times(1)

	_, err := judge.New(exec, nil, nil).Judge(ctx, helloSubmission, cases("1", "1", "2", "2"), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGathererReceivesEventsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	gath := mocks.NewMockResultGatherer(ctrl)

	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(greeter).Times(2)

	gomock.InOrder(
		gath.EXPECT().StartJob(execution.Python, 4),
		gath.EXPECT().ReachTest(1, []byte("a"), []byte("Hello, a")),
		gath.EXPECT().FinishTest(1, gomock.Any(), true),
		gath.EXPECT().ReachTest(2, []byte("b"), []byte("wrong")),
		gath.EXPECT().FinishTest(2, gomock.Any(), false),
		gath.EXPECT().IgnoreTest(3),
		gath.EXPECT().IgnoreTest(4),
		gath.EXPECT().FinishJob(judge.Verdict{Outcome: judge.WrongAnswer, FailingIndex: 2}),
	)

	v, err := judge.New(exec, nil, nil).Judge(context.Background(), helloSubmission,
		cases("a", "Hello, a", "b", "wrong", "c", "Hello, c", "d", "Hello, d"), gath)
	require.NoError(t, err)
	assert.Equal(t, 2, v.FailingIndex)
}

func TestGathererIsToldAboutRequestErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	gath := mocks.NewMockResultGatherer(ctrl)
	gath.EXPECT().InternalError(execution.ErrNoTestCases.Error()).Times(1)

	_, err := judge.New(exec, nil, nil).Judge(context.Background(), helloSubmission, nil, gath)
	require.ErrorIs(t, err, execution.ErrNoTestCases)
}
