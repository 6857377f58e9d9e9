//go:build !unix

package sandbox

import (
	"os"
	"syscall"
)

func processGroupAttr() *syscall.SysProcAttr {
	return nil
}

func killProcessGroup(proc *os.Process) {
	if proc != nil {
		_ = proc.Kill()
	}
}

func exitSignal(*os.ProcessState) int {
	return 0
}

func maxRSSKiB(*os.ProcessState) int64 {
	return 0
}
