package judge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/metrics"
)

//go:generate mockgen -source=judge.go -destination=mocks/mock_executor.go -package=mocks

// Executor runs a single request. The dispatcher implements it.
type Executor interface {
	Execute(ctx context.Context, req execution.Request) execution.Result
}

type Submission struct {
	Language execution.LanguageID
	Source   []byte
	Limits   execution.Limits
}

type Judge struct {
	exec    Executor
	metrics *metrics.Recorder
	logger  *slog.Logger
}

func New(exec Executor, rec *metrics.Recorder, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{
		exec:    exec,
		metrics: rec,
		logger:  logger,
	}
}

// Judge runs the submission against the test cases in order and stops at
// the first one that does not pass. The returned error is non-nil only
// when the submission could not be judged at all.
func (j *Judge) Judge(
	ctx context.Context,
	sub Submission,
	tests []execution.TestCase,
	gath ResultGatherer,
) (Verdict, error) {
	if gath == nil {
		gath = nopGatherer{}
	}

	req := execution.Request{
		Language: sub.Language,
		Source:   sub.Source,
		Limits:   sub.Limits,
	}
	if err := req.Validate(); err != nil {
		gath.InternalError(err.Error())
		return Verdict{}, err
	}
	if len(tests) == 0 {
		gath.InternalError(execution.ErrNoTestCases.Error())
		return Verdict{}, execution.ErrNoTestCases
	}

	gath.StartJob(sub.Language, len(tests))

	for i, test := range tests {
		index := i + 1
		gath.ReachTest(index, test.Input, test.ExpectedOutput)

		req.Stdin = test.Input
		res := j.exec.Execute(ctx, req)

		if res.IsValidationError() {
			gath.InternalError(res.Cause.Error())
			return Verdict{}, res.Cause
		}
		if res.Outcome == execution.OutcomeInternalError && ctx.Err() != nil {
			err := fmt.Errorf("judging interrupted on test case #%d: %w", index, context.Cause(ctx))
			gath.InternalError(err.Error())
			return Verdict{}, err
		}

		verdict, passed := evaluate(index, res, test.ExpectedOutput)
		gath.FinishTest(index, res, passed)
		if passed {
			continue
		}

		for rest := index + 1; rest <= len(tests); rest++ {
			gath.IgnoreTest(rest)
		}
		return j.finish(sub, verdict, gath), nil
	}

	return j.finish(sub, Verdict{Outcome: Accepted}, gath), nil
}

func (j *Judge) finish(sub Submission, verdict Verdict, gath ResultGatherer) Verdict {
	gath.FinishJob(verdict)
	j.metrics.ObserveVerdict(string(verdict.Outcome))
	j.logger.Info("judged submission",
		"language", sub.Language,
		"verdict", verdict.Outcome,
		"test", verdict.FailingIndex)
	return verdict
}

// evaluate maps one execution result to a verdict. passed is true when
// the test case was solved and judging should continue.
func evaluate(index int, res execution.Result, expected []byte) (verdict Verdict, passed bool) {
	switch res.Outcome {
	case execution.OutcomeSuccess:
		if outputsMatch(res.Stdout, string(expected)) {
			return Verdict{}, true
		}
		return Verdict{Outcome: WrongAnswer, FailingIndex: index}, false
	case execution.OutcomeCompileFailure:
		return Verdict{Outcome: CompileError, FailingIndex: index, Detail: res.Diagnostics}, false
	case execution.OutcomeTimedOut:
		return Verdict{Outcome: RuntimeError, FailingIndex: index, TimeLimitExceeded: true}, false
	case execution.OutcomeRuntimeFailure:
		detail := res.Summary()
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			detail = stderr
		}
		return Verdict{Outcome: RuntimeError, FailingIndex: index, Detail: detail}, false
	default:
		return Verdict{Outcome: RuntimeError, FailingIndex: index, Detail: res.Summary()}, false
	}
}

// outputsMatch ignores leading and trailing whitespace only.
func outputsMatch(actual, expected string) bool {
	return strings.TrimSpace(actual) == strings.TrimSpace(expected)
}
