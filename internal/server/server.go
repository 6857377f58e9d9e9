package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer/sqsgath"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/programme-lv/judge/internal/metrics"
	"github.com/programme-lv/judge/internal/problems"
	"golang.org/x/time/rate"
)

// ErrorHeader carries the api.ErrorCode of replies that hold an
// api.ErrorResponse instead of a regular response.
const ErrorHeader = "Judge-Error"

// Engine is what the server needs from engine.Engine.
type Engine interface {
	Execute(ctx context.Context, req execution.Request) execution.Result
	Judge(ctx context.Context, sub judge.Submission, problemID string, gath judge.ResultGatherer) (judge.Verdict, error)
	JudgeTests(ctx context.Context, sub judge.Submission, tests []execution.TestCase, gath judge.ResultGatherer) (judge.Verdict, error)
	Probe(ctx context.Context, problemID string, lang execution.LanguageID, input []byte) (execution.Result, error)
}

type Config struct {
	SubjectPrefix string
	QueueGroup    string
	// RateLimit is the number of requests admitted per second. Zero
	// disables limiting.
	RateLimit float64
	SqsRegion string
}

type Server struct {
	engine  Engine
	nc      *nats.Conn
	cfg     Config
	limiter *rate.Limiter
	metrics *metrics.Recorder
	logger  *slog.Logger

	sqsMu     sync.Mutex
	sqsClient sqsgath.Sender
	newSqs    func(ctx context.Context) (sqsgath.Sender, error)

	inflightMu sync.Mutex
	stopping   bool
	inflight   sync.WaitGroup
}

// New creates a server. nc may be nil when the server is only used through
// its handler methods.
func New(engine Engine, nc *nats.Conn, cfg Config, rec *metrics.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "judge"
	}
	s := &Server{
		engine:  engine,
		nc:      nc,
		cfg:     cfg,
		metrics: rec,
		logger:  logger,
	}
	if cfg.RateLimit > 0 {
		burst := max(int(cfg.RateLimit)*2, 1)
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.newSqs = func(ctx context.Context) (sqsgath.Sender, error) {
		return sqsgath.NewClient(ctx, cfg.SqsRegion)
	}
	return s
}

// SetSqsClient replaces the lazily created SQS client.
func (s *Server) SetSqsClient(client sqsgath.Sender) {
	s.sqsMu.Lock()
	defer s.sqsMu.Unlock()
	s.sqsClient = client
}

func (s *Server) Subject(op string) string {
	return s.cfg.SubjectPrefix + "." + op
}

type handlerFunc func(ctx context.Context, data []byte) (any, error)

// Run subscribes to the request subjects and serves until ctx is done.
// It then drains the connection and waits for running requests.
func (s *Server) Run(ctx context.Context) error {
	if s.nc == nil {
		return errors.New("server has no NATS connection")
	}
	handlers := map[string]handlerFunc{
		"execute": s.Execute,
		"judge":   s.Judge,
		"probe":   s.Probe,
	}
	// requests keep running through shutdown; their own limits bound them
	reqCtx := context.WithoutCancel(ctx)
	for op, h := range handlers {
		subject := s.Subject(op)
		_, err := s.nc.QueueSubscribe(subject, s.cfg.QueueGroup, func(msg *nats.Msg) {
			if !s.begin() {
				s.logger.Warn("dropping request received after shutdown", "subject", msg.Subject)
				return
			}
			go func() {
				defer s.inflight.Done()
				s.serve(reqCtx, msg, h)
			}()
		})
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", subject, err)
		}
		s.logger.Info("listening", "subject", subject, "queue", s.cfg.QueueGroup)
	}

	<-ctx.Done()
	s.logger.Info("shutting down, draining NATS connection")
	err := s.nc.Drain()
	s.waitClosed()
	s.stopAdmitting()
	s.inflight.Wait()
	return err
}

// begin registers a running request. It reports false once the server
// has stopped admitting requests.
func (s *Server) begin() bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if s.stopping {
		return false
	}
	s.inflight.Add(1)
	return true
}

func (s *Server) stopAdmitting() {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	s.stopping = true
}

// waitClosed blocks until draining has delivered every pending message.
func (s *Server) waitClosed() {
	deadline := time.Now().Add(s.nc.Opts.DrainTimeout)
	for !s.nc.IsClosed() && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *Server) serve(ctx context.Context, msg *nats.Msg, h handlerFunc) {
	resp, err := h(ctx, msg.Data)
	reply := nats.NewMsg(msg.Reply)
	if err != nil {
		errResp := ErrorResponse(err)
		reply.Header.Set(ErrorHeader, string(errResp.Code))
		resp = errResp
		s.logger.Warn("request failed", "subject", msg.Subject, "code", errResp.Code, "err", err)
	}
	if msg.Reply == "" {
		return
	}
	reply.Data, err = json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal reply", "subject", msg.Subject, "err", err)
		return
	}
	if err := msg.RespondMsg(reply); err != nil {
		s.logger.Warn("failed to send reply", "subject", msg.Subject, "err", err)
	}
}

var errRateLimited = errors.New("rate limited")

// admit waits for the rate limiter.
func (s *Server) admit(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if s.limiter.Tokens() < 1 {
		s.metrics.RateLimited()
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", errRateLimited, err)
	}
	return nil
}

func (s *Server) sqs(ctx context.Context) (sqsgath.Sender, error) {
	s.sqsMu.Lock()
	defer s.sqsMu.Unlock()
	if s.sqsClient != nil {
		return s.sqsClient, nil
	}
	client, err := s.newSqs(ctx)
	if err != nil {
		return nil, err
	}
	s.sqsClient = client
	return client, nil
}

// ErrorResponse maps a request-level error to its wire form.
func ErrorResponse(err error) api.ErrorResponse {
	code := api.ErrCodeInternal
	switch {
	case errors.Is(err, execution.ErrValidation):
		code = api.ErrCodeValidation
	case errors.Is(err, problems.ErrProblemNotFound):
		code = api.ErrCodeNotFound
	case errors.Is(err, execution.ErrNoReferenceSolution):
		code = api.ErrCodeNoReferenceSolution
	case errors.Is(err, execution.ErrNoTestCases):
		code = api.ErrCodeNoTestCases
	case errors.Is(err, errRateLimited):
		code = api.ErrCodeRateLimited
	}
	return api.ErrorResponse{Code: code, Message: err.Error()}
}
