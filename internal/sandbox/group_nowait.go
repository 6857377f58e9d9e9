//go:build !linux

package sandbox

import "os"

// awaitLeader is unsupported here; the group is only killed on timeout,
// cancellation or excess output.
func awaitLeader(*os.Process) bool {
	return false
}
