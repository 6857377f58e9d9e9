package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// pipeGracePeriod bounds how long output is still collected after the
// program has exited.
const pipeGracePeriod = 250 * time.Millisecond

// Process is a single command run inside a box. Every process gets its own
// process group so that it can be killed together with its descendants.
type Process struct {
	dir         string
	argv        []string
	env         []string
	constraints Constraints
	started     bool
}

func newProcess(dir string, argv []string, constraints Constraints) *Process {
	return &Process{
		dir:         dir,
		argv:        argv,
		env:         defaultEnv(dir),
		constraints: constraints,
	}
}

// Run starts the process, feeds it stdin, collects its output and waits
// for it to finish. The process group is killed when the wall time
// expires, when ctx is done or when either output stream grows past the
// configured limit. Output is collected for at most pipeGracePeriod after
// the program exits, even if a detached descendant keeps the pipes open.
// An error is returned only if the process could not be run at all.
func (p *Process) Run(ctx context.Context, stdin []byte) (*Metrics, error) {
	if p.started {
		panic("process should not be started twice")
	}
	p.started = true

	if len(p.argv) == 0 {
		return nil, errors.New("empty command")
	}

	var timedOut, canceled, exceeded atomic.Bool
	var (
		groupMu sync.Mutex
		reaped  bool
		cmd     *exec.Cmd
	)
	// The group id stays reserved only while the leader is unreaped.
	kill := func() {
		groupMu.Lock()
		defer groupMu.Unlock()
		if !reaped {
			killProcessGroup(cmd.Process)
		}
	}
	onExceed := func() {
		if !exceeded.Swap(true) {
			kill()
		}
	}
	stdout := newCappedBuffer(p.constraints.OutputBytes, onExceed)
	stderr := newCappedBuffer(p.constraints.OutputBytes, onExceed)

	cmd = exec.Command(p.argv[0], p.argv[1:]...)
	cmd.Dir = p.dir
	cmd.Env = p.env
	cmd.SysProcAttr = processGroupAttr()
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// A descendant that left the group may still hold the pipes open.
	cmd.WaitDelay = pipeGracePeriod

	start := time.Now()
	groupMu.Lock()
	err := cmd.Start()
	groupMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", p.argv[0], err)
	}

	done := make(chan struct{})
	go func() {
		var wallTimer <-chan time.Time
		if p.constraints.WallTime > 0 {
			t := time.NewTimer(p.constraints.WallTime)
			defer t.Stop()
			wallTimer = t.C
		}
		select {
		case <-ctx.Done():
			canceled.Store(true)
			kill()
		case <-wallTimer:
			timedOut.Store(true)
			kill()
		case <-done:
		}
	}()

	release := sync.OnceFunc(func() {
		groupMu.Lock()
		reaped = true
		groupMu.Unlock()
		close(done)
	})
	if awaitLeader(cmd.Process) {
		// Kill anything the program left running in its group.
		kill()
		release()
	}
	waitErr := cmd.Wait()
	release()
	if waitErr != nil && !errors.Is(waitErr, exec.ErrWaitDelay) {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("wait for %s: %w", p.argv[0], waitErr)
		}
	}

	state := cmd.ProcessState
	return &Metrics{
		ExitCode:       state.ExitCode(),
		ExitSignal:     exitSignal(state),
		WallTime:       time.Since(start),
		CPUTime:        state.UserTime() + state.SystemTime(),
		MaxRSSKiB:      maxRSSKiB(state),
		TimedOut:       timedOut.Load(),
		Canceled:       canceled.Load() && !timedOut.Load(),
		OutputExceeded: exceeded.Load(),
		Stdout:         stdout.Bytes(),
		Stderr:         stderr.Bytes(),
	}, nil
}

func defaultEnv(dir string) []string {
	env := []string{
		"HOME=" + dir,
		"TMPDIR=" + dir,
		"LANG=C.UTF-8",
	}
	for _, key := range []string{"PATH", "JAVA_HOME"} {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	return env
}
