package gatherer

import (
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/judge"
)

// Multi forwards every event to each of its gatherers in order.
type Multi []judge.ResultGatherer

func (m Multi) StartJob(language execution.LanguageID, testCount int) {
	for _, g := range m {
		g.StartJob(language, testCount)
	}
}

func (m Multi) ReachTest(index int, input []byte, answer []byte) {
	for _, g := range m {
		g.ReachTest(index, input, answer)
	}
}

func (m Multi) IgnoreTest(index int) {
	for _, g := range m {
		g.IgnoreTest(index)
	}
}

func (m Multi) FinishTest(index int, result execution.Result, passed bool) {
	for _, g := range m {
		g.FinishTest(index, result, passed)
	}
}

func (m Multi) InternalError(msg string) {
	for _, g := range m {
		g.InternalError(msg)
	}
}

func (m Multi) FinishJob(verdict judge.Verdict) {
	for _, g := range m {
		g.FinishJob(verdict)
	}
}
