//go:build unix

package sandbox

import (
	"os"
	"runtime"
	"syscall"
)

func processGroupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(proc *os.Process) {
	if proc == nil {
		return
	}
	// The group id equals the leader's pid because of Setpgid.
	_ = syscall.Kill(-proc.Pid, syscall.SIGKILL)
}

func exitSignal(state *os.ProcessState) int {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if ok && ws.Signaled() {
		return int(ws.Signal())
	}
	return 0
}

func maxRSSKiB(state *os.ProcessState) int64 {
	ru, ok := state.SysUsage().(*syscall.Rusage)
	if !ok {
		return 0
	}
	if runtime.GOOS == "darwin" {
		return int64(ru.Maxrss) / 1024
	}
	return int64(ru.Maxrss)
}
