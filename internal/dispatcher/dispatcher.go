package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/metrics"
	"github.com/programme-lv/judge/internal/runner"
	"github.com/programme-lv/judge/internal/sandbox"
	"golang.org/x/sync/semaphore"
)

type Config struct {
	// Defaults fill the limits a request leaves unset.
	Defaults execution.Limits
	// MaxParallel bounds concurrent executions. Zero means unbounded.
	MaxParallel int
}

// Dispatcher turns a request into a result: it validates the request,
// gives it a fresh box, hands it to the language's runner and removes the
// box afterwards.
type Dispatcher struct {
	registry *runner.Registry
	boxes    *sandbox.Factory
	defaults execution.Limits
	slots    *semaphore.Weighted
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func New(registry *runner.Registry, boxes *sandbox.Factory, cfg Config, rec *metrics.Recorder, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		registry: registry,
		boxes:    boxes,
		defaults: cfg.Defaults,
		metrics:  rec,
		logger:   logger,
	}
	if cfg.MaxParallel > 0 {
		d.slots = semaphore.NewWeighted(int64(cfg.MaxParallel))
	}
	return d
}

// Validate reports whether req can be executed, without doing any I/O.
func (d *Dispatcher) Validate(req execution.Request) error {
	_, err := d.validate(req)
	return err
}

func (d *Dispatcher) validate(req execution.Request) (runner.Runner, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return d.registry.Lookup(req.Language)
}

// Execute runs one request. It never panics and never leaves the box
// behind; every failure is reported through the returned result.
func (d *Dispatcher) Execute(ctx context.Context, req execution.Request) (res execution.Result) {
	r, err := d.validate(req)
	if err != nil {
		d.logger.Info("rejected execution request", "language", req.Language, "err", err)
		return execution.Invalid(err)
	}

	if d.slots != nil {
		if err := d.slots.Acquire(ctx, 1); err != nil {
			return execution.InternalError(fmt.Errorf("wait for execution slot: %w", err))
		}
		defer d.slots.Release(1)
	}

	started := time.Now()
	box, err := d.boxes.NewBox()
	if err != nil {
		d.logger.Error("failed to create box", "err", err)
		return execution.InternalError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("runner panicked",
				"box", box.ID(),
				"language", req.Language,
				"panic", p,
				"stack", string(debug.Stack()))
			res = execution.InternalError(fmt.Errorf("runner panicked: %v", p))
		}
		if err := box.Close(); err != nil {
			d.logger.Error("failed to remove box", "box", box.ID(), "err", err)
		}
		d.finish(req, box, res, time.Since(started))
	}()

	if err := box.AddFile(r.SourceFilename(), req.Source); err != nil {
		return execution.InternalError(err)
	}

	return r.Run(ctx, box, req.Stdin, req.Limits.WithDefaults(d.defaults))
}

func (d *Dispatcher) finish(req execution.Request, box *sandbox.Box, res execution.Result, took time.Duration) {
	d.metrics.ObserveExecution(string(req.Language), string(res.Outcome), took)

	attrs := []any{
		"box", box.ID(),
		"language", req.Language,
		"outcome", res.Outcome,
		"wall_ms", took.Milliseconds(),
	}
	if res.Outcome == execution.OutcomeInternalError {
		d.logger.Error("execution failed", append(attrs, "err", res.Cause)...)
		return
	}
	d.logger.Info("executed", attrs...)
}
