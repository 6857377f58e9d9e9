package api

// Limits are optional; zero values fall back to the server defaults.
type Limits struct {
	TimeMillis int64 `json:"time_ms,omitempty"`
	MemoryKiB  int64 `json:"memory_kib,omitempty"`
	OutputKiB  int64 `json:"output_kib,omitempty"`
}

// ExecReq runs code once on the given stdin.
type ExecReq struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin"`
	Limits   Limits `json:"limits"`
}

// JudgeReq judges code against a stored problem, or against Tests when
// ProblemID is empty.
type JudgeReq struct {
	JobUuid   string    `json:"job_uuid"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	ProblemID string    `json:"problem_id"`
	Tests     []ReqTest `json:"tests,omitempty"`
	Limits    Limits    `json:"limits"`

	// StreamInbox receives progress messages over NATS when set.
	StreamInbox string `json:"stream_inbox,omitempty"`
	// ResSqsUrl receives progress messages over SQS when set.
	ResSqsUrl string `json:"res_sqs_url,omitempty"`
}

type ReqTest struct {
	Input  string `json:"in"`
	Answer string `json:"ans"`
}

// ProbeReq runs a problem's reference solution on ad-hoc input.
type ProbeReq struct {
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Input     string `json:"input"`
}
