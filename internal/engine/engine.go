package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/programme-lv/judge/internal/dispatcher"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/programme-lv/judge/internal/metrics"
	"github.com/programme-lv/judge/internal/probe"
	"github.com/programme-lv/judge/internal/problems"
	"github.com/programme-lv/judge/internal/runner"
	"github.com/programme-lv/judge/internal/sandbox"
)

var ErrNoStore = errors.New("no problem store configured")

type Config struct {
	WorkDir          string
	LanguagesFile    string
	Limits           execution.Limits
	CompileTimeLimit time.Duration
	MaxParallel      int
}

// Engine is the entry point used by the CLI and the NATS server.
type Engine struct {
	boxes      *sandbox.Factory
	registry   *runner.Registry
	dispatcher *dispatcher.Dispatcher
	judge      *judge.Judge
	prober     *probe.Prober
	store      problems.Store
	logger     *slog.Logger
}

// New wires the engine. store may be nil, in which case only Execute works.
func New(cfg Config, store problems.Store, rec *metrics.Recorder, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	specs, err := runner.LoadLanguages(cfg.LanguagesFile)
	if err != nil {
		return nil, err
	}
	registry, err := runner.NewRegistryFromSpecs(specs, runner.Options{
		CompileTimeLimit: cfg.CompileTimeLimit,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	boxes, err := sandbox.NewFactory(cfg.WorkDir, logger)
	if err != nil {
		return nil, err
	}
	rec.TrackLiveArtifacts(boxes.Live)

	d := dispatcher.New(registry, boxes, dispatcher.Config{
		Defaults:    cfg.Limits,
		MaxParallel: cfg.MaxParallel,
	}, rec, logger)

	e := &Engine{
		boxes:      boxes,
		registry:   registry,
		dispatcher: d,
		judge:      judge.New(d, rec, logger),
		store:      store,
		logger:     logger,
	}
	if store != nil {
		e.prober = probe.New(store, d, execution.Limits{}, logger)
	}
	return e, nil
}

func (e *Engine) Execute(ctx context.Context, req execution.Request) execution.Result {
	return e.dispatcher.Execute(ctx, req)
}

// Judge runs the submission against every test case of the problem.
func (e *Engine) Judge(ctx context.Context, sub judge.Submission, problemID string, gath judge.ResultGatherer) (judge.Verdict, error) {
	if e.store == nil {
		return abort(gath, ErrNoStore)
	}
	if _, err := e.store.FindProblemByID(ctx, problemID); err != nil {
		return abort(gath, err)
	}
	tests, err := e.store.FindTestCases(ctx, problemID)
	if err != nil {
		return abort(gath, fmt.Errorf("load test cases of %s: %w", problemID, err))
	}
	e.logger.Info("judging submission", "problem", problemID, "language", sub.Language, "tests", len(tests))
	return e.judge.Judge(ctx, sub, tests, gath)
}

// abort reports a failure that happened before judging started.
func abort(gath judge.ResultGatherer, err error) (judge.Verdict, error) {
	if gath != nil {
		gath.InternalError(err.Error())
	}
	return judge.Verdict{}, err
}

// JudgeTests runs the submission against caller supplied test cases.
func (e *Engine) JudgeTests(ctx context.Context, sub judge.Submission, tests []execution.TestCase, gath judge.ResultGatherer) (judge.Verdict, error) {
	return e.judge.Judge(ctx, sub, tests, gath)
}

func (e *Engine) Probe(ctx context.Context, problemID string, lang execution.LanguageID, input []byte) (execution.Result, error) {
	if e.prober == nil {
		return execution.Result{}, ErrNoStore
	}
	return e.prober.Probe(ctx, problemID, lang, input)
}

// Languages returns the command tables of the registered languages.
func (e *Engine) Languages() []runner.LanguageSpec {
	specs := make([]runner.LanguageSpec, 0, len(execution.Languages))
	for _, lang := range execution.Languages {
		if spec, ok := e.registry.Spec(lang); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

// Close removes any work directory that is still around.
func (e *Engine) Close() error {
	return e.boxes.CloseAll()
}
