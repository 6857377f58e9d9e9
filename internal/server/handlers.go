package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/programme-lv/judge/internal/gatherer"
	"github.com/programme-lv/judge/internal/gatherer/natsgath"
	"github.com/programme-lv/judge/internal/gatherer/respbuilder"
	"github.com/programme-lv/judge/internal/gatherer/sqsgath"
	"github.com/programme-lv/judge/internal/judge"
)

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: malformed request: %v", execution.ErrValidation, err)
	}
	return nil
}

func limits(l api.Limits) execution.Limits {
	return execution.Limits{
		TimeLimit:        time.Duration(l.TimeMillis) * time.Millisecond,
		MemoryLimitKiB:   l.MemoryKiB,
		OutputLimitBytes: l.OutputKiB * 1024,
	}
}

// Execute serves an api.ExecReq. Execution failures are part of the
// response; only malformed and rate limited requests return an error.
func (s *Server) Execute(ctx context.Context, data []byte) (any, error) {
	var req api.ExecReq
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if err := s.admit(ctx); err != nil {
		return nil, err
	}
	lang, err := execution.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	res := s.engine.Execute(ctx, execution.Request{
		Language: lang,
		Source:   []byte(req.Code),
		Stdin:    []byte(req.Stdin),
		Limits:   limits(req.Limits),
	})
	if res.IsValidationError() {
		return nil, res.Cause
	}
	return gatherer.ExecResponse(res), nil
}

// Judge serves an api.JudgeReq and replies with the complete
// api.JudgeResponse. Progress is streamed to the request's inbox and
// result queue while judging.
func (s *Server) Judge(ctx context.Context, data []byte) (any, error) {
	var req api.JudgeReq
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.JobUuid == "" {
		req.JobUuid = uuid.NewString()
	}
	if err := s.admit(ctx); err != nil {
		return nil, err
	}
	lang, err := execution.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	if req.ProblemID == "" && len(req.Tests) == 0 {
		return nil, execution.ErrNoTestCases
	}

	rb := respbuilder.New(req.JobUuid)
	gath := gatherer.Multi{rb}
	if req.StreamInbox != "" && s.nc != nil {
		gath = append(gath, natsgath.New(s.nc, req.JobUuid, req.StreamInbox, s.logger))
	}
	if req.ResSqsUrl != "" {
		client, err := s.sqs(ctx)
		if err != nil {
			return nil, fmt.Errorf("create SQS client: %w", err)
		}
		gath = append(gath, sqsgath.New(client, req.JobUuid, req.ResSqsUrl, s.logger))
	}

	sub := judge.Submission{
		Language: lang,
		Source:   []byte(req.Code),
		Limits:   limits(req.Limits),
	}
	if req.ProblemID != "" {
		_, err = s.engine.Judge(ctx, sub, req.ProblemID, gath)
	} else {
		tests := make([]execution.TestCase, 0, len(req.Tests))
		for _, t := range req.Tests {
			tests = append(tests, execution.TestCase{
				Input:          []byte(t.Input),
				ExpectedOutput: []byte(t.Answer),
			})
		}
		_, err = s.engine.JudgeTests(ctx, sub, tests, gath)
	}
	if err != nil {
		return nil, err
	}
	resp, _ := rb.Response()
	return resp, nil
}

// Probe serves an api.ProbeReq.
func (s *Server) Probe(ctx context.Context, data []byte) (any, error) {
	var req api.ProbeReq
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if err := s.admit(ctx); err != nil {
		return nil, err
	}
	lang, err := execution.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Probe(ctx, req.ProblemID, lang, []byte(req.Input))
	if err != nil {
		return nil, err
	}
	return api.ProbeResponse{
		ProblemID: req.ProblemID,
		Result:    gatherer.ExecResponse(res),
	}, nil
}
