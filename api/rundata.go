package api

// RuntimeData contains execution information for a process
type RuntimeData struct {
	Stdout   string `json:"out"`
	Stderr   string `json:"err"`
	ExitCode int    `json:"exit"`

	WallMillis int64 `json:"wall_ms"`

	Outcome     Outcome `json:"outcome"`
	Diagnostics string  `json:"diagnostics,omitempty"`
	Error       string  `json:"error,omitempty"`
}
