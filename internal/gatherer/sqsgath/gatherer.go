package sqsgath

import (
	"log/slog"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer"
	"github.com/programme-lv/judge/internal/judge"
)

type sqsResQueueGatherer struct {
	sqsClient Sender
	queueUrl  string
	jobUuid   string
	fifo      bool
	seq       int
	logger    *slog.Logger
}

var _ judge.ResultGatherer = (*sqsResQueueGatherer)(nil)

func (s *sqsResQueueGatherer) StartJob(language execution.LanguageID, testCount int) {
	s.send(api.NewStartJob(s.jobUuid, string(language), testCount))
}

func (s *sqsResQueueGatherer) ReachTest(index int, input []byte, answer []byte) {
	s.send(api.NewReachTest(s.jobUuid, index, gatherer.TrimmedPtr(input), gatherer.TrimmedPtr(answer)))
}

func (s *sqsResQueueGatherer) IgnoreTest(index int) {
	s.send(api.NewIgnoreTest(s.jobUuid, index))
}

func (s *sqsResQueueGatherer) FinishTest(index int, result execution.Result, passed bool) {
	s.send(api.NewFinishTest(s.jobUuid, index, passed, gatherer.RuntimeData(result, true)))
}

func (s *sqsResQueueGatherer) InternalError(msg string) {
	s.send(api.NewInternalErrorJob(s.jobUuid, msg))
}

func (s *sqsResQueueGatherer) FinishJob(verdict judge.Verdict) {
	s.send(api.NewFinishJob(s.jobUuid, gatherer.VerdictStatus(verdict), verdict.FailingIndex, verdict.Message()))
}
