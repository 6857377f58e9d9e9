package api

type Outcome string

const (
	Success        Outcome = "success"
	CompileFailure Outcome = "compile_failure"
	RuntimeFailure Outcome = "runtime_failure"
	TimedOut       Outcome = "timed_out"
	InternalError  Outcome = "internal_error"
)

// ExecResponse describes one execution.
type ExecResponse struct {
	Outcome     Outcome `json:"outcome"`
	Stdout      string  `json:"stdout,omitempty"`
	Stderr      string  `json:"stderr,omitempty"`
	ExitCode    int     `json:"exit_code"`
	WallMillis  int64   `json:"wall_ms"`
	Diagnostics string  `json:"diagnostics,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type VerdictStatus string

const (
	Accepted     VerdictStatus = "accepted"
	WrongAnswer  VerdictStatus = "wrong_answer"
	RuntimeError VerdictStatus = "runtime_error"
	CompileError VerdictStatus = "compile_error"
)

// TestResult represents the result of a single test case
type TestResult struct {
	TestId  int          `json:"test_id"`
	Ignored bool         `json:"ignored,omitempty"`
	Passed  bool         `json:"passed"`
	Run     *RuntimeData `json:"run,omitempty"`
}

// JudgeResponse is the complete, non-streaming answer to a JudgeReq.
type JudgeResponse struct {
	JobUuid string `json:"job_uuid"`

	Verdict           VerdictStatus `json:"verdict"`
	FailingTest       int           `json:"failing_test,omitempty"`
	TimeLimitExceeded bool          `json:"time_limit_exceeded,omitempty"`
	Message           string        `json:"message"`
	Detail            string        `json:"detail,omitempty"`

	TestResults []TestResult `json:"test_results"`

	StartTime   string `json:"start_time"`
	FinishTime  string `json:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms"`
}

type ProbeResponse struct {
	ProblemID string       `json:"problem_id"`
	Result    ExecResponse `json:"result"`
}

type ErrorCode string

const (
	ErrCodeValidation          ErrorCode = "validation"
	ErrCodeNotFound            ErrorCode = "not_found"
	ErrCodeNoReferenceSolution ErrorCode = "no_reference_solution"
	ErrCodeNoTestCases         ErrorCode = "no_test_cases"
	ErrCodeRateLimited         ErrorCode = "rate_limited"
	ErrCodeInternal            ErrorCode = "internal"
)

// ErrorResponse is returned instead of a response when the request could
// not be served at all.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
