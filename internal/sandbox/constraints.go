package sandbox

import (
	"fmt"
	"time"
)

type Constraints struct {
	WallTime    time.Duration
	MemoryKiB   int64
	OutputBytes int64
}

func DefaultConstraints() Constraints {
	return Constraints{
		WallTime:    10 * time.Second,
		MemoryKiB:   2048000,
		OutputBytes: 64 << 20,
	}
}

// WithAddressSpaceLimit wraps argv in a shell that lowers the virtual
// memory rlimit before exec'ing the real program.
func (c Constraints) WithAddressSpaceLimit(argv []string) []string {
	if c.MemoryKiB <= 0 || len(argv) == 0 {
		return argv
	}
	script := fmt.Sprintf(`ulimit -v %d && exec "$@"`, c.MemoryKiB)
	return append([]string{"/bin/sh", "-c", script, "sh"}, argv...)
}
