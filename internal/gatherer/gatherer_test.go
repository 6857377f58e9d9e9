package gatherer_test

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/programme-lv/judge/internal/judge/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestTrimStrToRect(t *testing.T) {
	assert.Equal(t, "", gatherer.TrimStrToRect("", 2, 3))
	assert.Equal(t, "ab\ncd", gatherer.TrimStrToRect("ab\ncd", 2, 3))
	assert.Equal(t, "abc[...]\nd", gatherer.TrimStrToRect("abcdef\nd", 2, 3))
	assert.Equal(t, "a\nb\n[...]", gatherer.TrimStrToRect("a\nb\nc\nd", 2, 3))
}

func TestTrimStrToRectKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "a[...]", gatherer.TrimStrToRect("aéz", 1, 2))
	assert.Equal(t, "aé[...]", gatherer.TrimStrToRect("aéz", 1, 3))

	trimmed := gatherer.TrimStrToRect(strings.Repeat("ā", 100), 1, 51)
	assert.True(t, utf8.ValidString(trimmed))
	assert.Equal(t, strings.Repeat("ā", 25)+"[...]", trimmed)
}

func TestRuntimeDataTrimsLongOutput(t *testing.T) {
	long := strings.Repeat(strings.Repeat("x", 200)+"\n", 100)
	res := execution.Success(long, "", 1500*time.Millisecond)

	data := gatherer.RuntimeData(res, true)
	lines := strings.Split(data.Stdout, "\n")
	assert.Len(t, lines, api.MaxRuntimeDataHeight+1)
	assert.Equal(t, api.Success, data.Outcome)
	assert.Equal(t, int64(1500), data.WallMillis)

	full := gatherer.RuntimeData(res, false)
	assert.Equal(t, long, full.Stdout)
}

func TestExecResponseCarriesCause(t *testing.T) {
	resp := gatherer.ExecResponse(execution.InternalError(errors.New("disk full")))
	assert.Equal(t, api.InternalError, resp.Outcome)
	assert.Equal(t, "disk full", resp.Error)

	resp = gatherer.ExecResponse(execution.CompileFailure("main.cpp:1: error"))
	assert.Equal(t, api.CompileFailure, resp.Outcome)
	assert.Equal(t, "main.cpp:1: error", resp.Diagnostics)
}

func TestMultiForwardsToAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockResultGatherer(ctrl)
	b := mocks.NewMockResultGatherer(ctrl)
	v := judge.Verdict{Outcome: judge.Accepted}

	for _, g := range []*mocks.MockResultGatherer{a, b} {
		g.EXPECT().StartJob(execution.Cpp, 1)
		g.EXPECT().ReachTest(1, gomock.Any(), gomock.Any())
		g.EXPECT().FinishTest(1, gomock.Any(), true)
		g.EXPECT().FinishJob(v)
	}

	m := gatherer.Multi{a, b}
	m.StartJob(execution.Cpp, 1)
	m.ReachTest(1, nil, nil)
	m.FinishTest(1, execution.Success("", "", 0), true)
	m.FinishJob(v)
}
