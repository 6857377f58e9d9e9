package natsgath

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer"
	"github.com/programme-lv/judge/internal/judge"
)

type natsGatherer struct {
	nc      *nats.Conn
	inbox   string
	jobUuid string
	logger  *slog.Logger
}

var _ judge.ResultGatherer = (*natsGatherer)(nil)

// StartJob implements judge.ResultGatherer.
func (s *natsGatherer) StartJob(language execution.LanguageID, testCount int) {
	s.send(api.NewStartJob(s.jobUuid, string(language), testCount))
}

// ReachTest implements judge.ResultGatherer.
func (s *natsGatherer) ReachTest(index int, input []byte, answer []byte) {
	s.send(api.NewReachTest(s.jobUuid, index, gatherer.TrimmedPtr(input), gatherer.TrimmedPtr(answer)))
}

// IgnoreTest implements judge.ResultGatherer.
func (s *natsGatherer) IgnoreTest(index int) {
	s.send(api.NewIgnoreTest(s.jobUuid, index))
}

func (s *natsGatherer) FinishTest(index int, result execution.Result, passed bool) {
	s.send(api.NewFinishTest(s.jobUuid, index, passed, gatherer.RuntimeData(result, true)))
}

func (s *natsGatherer) InternalError(msg string) {
	s.send(api.NewInternalErrorJob(s.jobUuid, msg))
	s.flush()
}

func (s *natsGatherer) FinishJob(verdict judge.Verdict) {
	s.send(api.NewFinishJob(s.jobUuid, gatherer.VerdictStatus(verdict), verdict.FailingIndex, verdict.Message()))
	s.flush()
}

func (s *natsGatherer) flush() {
	if err := s.nc.Flush(); err != nil {
		s.logger.Warn("failed to flush NATS connection", "job", s.jobUuid, "err", err)
	}
}
