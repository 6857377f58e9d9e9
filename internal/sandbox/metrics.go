package sandbox

import "time"

// Metrics describes a finished process.
type Metrics struct {
	ExitCode   int
	ExitSignal int

	WallTime  time.Duration
	CPUTime   time.Duration
	MaxRSSKiB int64

	TimedOut       bool
	Canceled       bool
	OutputExceeded bool

	Stdout []byte
	Stderr []byte
}

// Exited reports whether the process terminated normally with code 0 and
// was not stopped by any limit.
func (m *Metrics) Exited() bool {
	return m.ExitCode == 0 && m.ExitSignal == 0 && !m.TimedOut && !m.Canceled && !m.OutputExceeded
}
