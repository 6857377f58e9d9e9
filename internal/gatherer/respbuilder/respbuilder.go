package respbuilder

import (
	"time"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer"
	"github.com/programme-lv/judge/internal/judge"
)

// Builder gathers judging events and builds a complete api.JudgeResponse.
type Builder struct {
	jobUuid string

	started  time.Time
	finished *time.Time

	testResults []api.TestResult

	verdict      *judge.Verdict
	errorMessage *string
}

var _ judge.ResultGatherer = (*Builder)(nil)

func New(jobUuid string) *Builder {
	return &Builder{
		jobUuid: jobUuid,
		started: time.Now(),
	}
}

// StartJob implements judge.ResultGatherer.
func (b *Builder) StartJob(language execution.LanguageID, testCount int) {
	b.testResults = make([]api.TestResult, 0, testCount)
}

// ReachTest implements judge.ResultGatherer.
func (b *Builder) ReachTest(index int, input []byte, answer []byte) {}

// IgnoreTest implements judge.ResultGatherer.
func (b *Builder) IgnoreTest(index int) {
	b.testResults = append(b.testResults, api.TestResult{TestId: index, Ignored: true})
}

// FinishTest implements judge.ResultGatherer.
func (b *Builder) FinishTest(index int, result execution.Result, passed bool) {
	b.testResults = append(b.testResults, api.TestResult{
		TestId: index,
		Passed: passed,
		Run:    gatherer.RuntimeData(result, true),
	})
}

// InternalError implements judge.ResultGatherer.
func (b *Builder) InternalError(msg string) {
	b.errorMessage = &msg
	b.finish()
}

// FinishJob implements judge.ResultGatherer.
func (b *Builder) FinishJob(verdict judge.Verdict) {
	b.verdict = &verdict
	b.finish()
}

func (b *Builder) finish() {
	now := time.Now()
	b.finished = &now
}

// Response builds the api.JudgeResponse from gathered data. It reports
// false when judging did not produce a verdict.
func (b *Builder) Response() (api.JudgeResponse, bool) {
	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}
	resp := api.JudgeResponse{
		JobUuid:     b.jobUuid,
		TestResults: b.testResults,
		StartTime:   start,
		FinishTime:  finish,
		TotalTimeMs: total,
	}
	if b.verdict == nil {
		if b.errorMessage != nil {
			resp.Message = *b.errorMessage
		}
		return resp, false
	}
	resp.Verdict = gatherer.VerdictStatus(*b.verdict)
	resp.FailingTest = b.verdict.FailingIndex
	resp.TimeLimitExceeded = b.verdict.TimeLimitExceeded
	resp.Message = b.verdict.Message()
	resp.Detail = b.verdict.Detail
	return resp, true
}
