//go:build unix

package sandbox_test

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/programme-lv/judge/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBox(t *testing.T) *sandbox.Box {
	t.Helper()
	box, err := newFactory(t).NewBox()
	require.NoError(t, err)
	t.Cleanup(func() { _ = box.Close() })
	return box
}

func TestProcessEchoesStdin(t *testing.T) {
	box := newBox(t)

	m, err := box.Command([]string{"cat"}, sandbox.DefaultConstraints()).
		Run(context.Background(), []byte("Hello, World\n"))
	require.NoError(t, err)
	assert.True(t, m.Exited())
	assert.Equal(t, "Hello, World\n", string(m.Stdout))
	assert.Empty(t, m.Stderr)
}

func TestProcessReportsExitCodeAndStderr(t *testing.T) {
	box := newBox(t)

	m, err := box.Command([]string{"sh", "-c", "echo oops >&2; exit 3"}, sandbox.DefaultConstraints()).
		Run(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, m.Exited())
	assert.Equal(t, 3, m.ExitCode)
	assert.Equal(t, "oops\n", string(m.Stderr))
}

func TestProcessMissingBinary(t *testing.T) {
	box := newBox(t)

	_, err := box.Command([]string{"definitely-not-a-real-binary"}, sandbox.DefaultConstraints()).
		Run(context.Background(), nil)
	require.Error(t, err)
}

func TestProcessTimeoutKillsWholeGroup(t *testing.T) {
	box := newBox(t)

	c := sandbox.DefaultConstraints()
	c.WallTime = 300 * time.Millisecond
	script := "sleep 30 & echo $! > bg.pid; wait"

	started := time.Now()
	m, err := box.Command([]string{"sh", "-c", script}, c).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, m.TimedOut)
	assert.False(t, m.Exited())
	assert.Less(t, time.Since(started), 10*time.Second)

	raw, err := box.GetFile("bg.pid")
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return !processAlive(pid) }, 2*time.Second, 20*time.Millisecond)
}

func TestProcessTimeoutWithDetachedDescendant(t *testing.T) {
	if _, err := exec.LookPath("setsid"); err != nil {
		t.Skip("setsid not available")
	}
	box := newBox(t)

	c := sandbox.DefaultConstraints()
	c.WallTime = 300 * time.Millisecond
	// The detached sleep leaves the group but inherits stdout and stderr.
	script := "setsid sleep 8 & echo $! > bg.pid; sleep 30"

	started := time.Now()
	m, err := box.Command([]string{"sh", "-c", script}, c).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, m.TimedOut)
	assert.Less(t, time.Since(started), 3*time.Second)

	raw, err := box.GetFile("bg.pid")
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	if processAlive(pid) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
}

func TestProcessExitDoesNotWaitForDetachedDescendant(t *testing.T) {
	if _, err := exec.LookPath("setsid"); err != nil {
		t.Skip("setsid not available")
	}
	box := newBox(t)

	script := "setsid sleep 8 & echo $! > bg.pid; echo done"

	started := time.Now()
	m, err := box.Command([]string{"sh", "-c", script}, sandbox.DefaultConstraints()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, m.Exited())
	assert.Equal(t, "done\n", string(m.Stdout))
	assert.Less(t, time.Since(started), 3*time.Second)

	raw, err := box.GetFile("bg.pid")
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	if processAlive(pid) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
}

func TestProcessExitKillsLeftoverGroupMembers(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("leftover group members are only killed on linux")
	}
	box := newBox(t)

	script := "sleep 30 & echo $! > bg.pid; echo done"

	started := time.Now()
	m, err := box.Command([]string{"sh", "-c", script}, sandbox.DefaultConstraints()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, m.Exited())
	assert.False(t, m.TimedOut)
	assert.Less(t, time.Since(started), 3*time.Second)

	raw, err := box.GetFile("bg.pid")
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return !processAlive(pid) }, 2*time.Second, 20*time.Millisecond)
}

func TestProcessCancellation(t *testing.T) {
	box := newBox(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	m, err := box.Command([]string{"sleep", "30"}, sandbox.DefaultConstraints()).Run(ctx, nil)
	require.NoError(t, err)
	assert.True(t, m.Canceled)
	assert.False(t, m.TimedOut)
}

func TestProcessOutputLimit(t *testing.T) {
	box := newBox(t)

	c := sandbox.DefaultConstraints()
	c.OutputBytes = 1024
	m, err := box.Command([]string{"yes"}, c).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, m.OutputExceeded)
	assert.Len(t, m.Stdout, 1024)
}

func TestProcessIgnoresUnreadStdin(t *testing.T) {
	box := newBox(t)

	input := []byte(strings.Repeat("x", 1<<20))
	m, err := box.Command([]string{"true"}, sandbox.DefaultConstraints()).Run(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, m.Exited())
}

func TestAddressSpaceLimitWrapper(t *testing.T) {
	box := newBox(t)

	c := sandbox.DefaultConstraints()
	argv := c.WithAddressSpaceLimit([]string{"echo", "limited"})
	require.Equal(t, "/bin/sh", argv[0])

	m, err := box.Command(argv, c).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "limited\n", string(m.Stdout))
}

// processAlive treats zombies as dead; an orphan may not be reaped yet.
func processAlive(pid int) bool {
	stat, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err == nil {
		fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:]))
		return len(fields) > 0 && fields[0] != "Z"
	}
	if _, statErr := os.Stat("/proc/self"); statErr == nil {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
