package judge

import (
	"github.com/programme-lv/judge/internal/execution"
)

//go:generate mockgen -source=gatherer.go -destination=mocks/mock_gatherer.go -package=mocks

// ResultGatherer receives progress events while a submission is judged.
// Test indices are 1-based.
type ResultGatherer interface {
	StartJob(language execution.LanguageID, testCount int)

	ReachTest(index int, input []byte, answer []byte)
	IgnoreTest(index int)
	FinishTest(index int, result execution.Result, passed bool)

	// InternalError ends a job that could not be judged at all.
	InternalError(msg string)
	FinishJob(verdict Verdict)
}

type nopGatherer struct{}

func (nopGatherer) StartJob(execution.LanguageID, int) {}
func (nopGatherer) ReachTest(int, []byte, []byte) {}
func (nopGatherer) IgnoreTest(int) {}
func (nopGatherer) FinishTest(int, execution.Result, bool) {}
func (nopGatherer) InternalError(string) {}
func (nopGatherer) FinishJob(Verdict) {}
