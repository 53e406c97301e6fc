package pidfile

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wmd.pid")
	p := New(path)

	require.NoError(t, p.Acquire())

	pid, running, err := p.Running()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, running)

	err = New(path).Acquire()
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, p.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// releasing twice is harmless
	assert.NoError(t, p.Release())
}

func TestAcquireReplacesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wmd.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0644))

	p := New(path)
	require.NoError(t, p.Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))
}

func TestRunningWithoutFile(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "missing.pid"))

	pid, running, err := p.Running()
	require.NoError(t, err)
	assert.Zero(t, pid)
	assert.False(t, running)
}

func TestTerminateStopsRecordedProcess(t *testing.T) {
	sleeper := exec.Command("sleep", "30")
	require.NoError(t, sleeper.Start())
	exited := make(chan struct{})
	go func() {
		_ = sleeper.Wait()
		close(exited)
	}()

	path := filepath.Join(t.TempDir(), "wmd.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(sleeper.Process.Pid)+"\n"), 0644))

	p := New(path)
	require.NoError(t, p.Terminate(5*time.Second))

	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("process still running after Terminate")
	}
	require.NoError(t, p.Acquire())
	require.NoError(t, p.Release())
}

func TestTerminateWithoutFileIsNoop(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "missing.pid"))
	assert.NoError(t, p.Terminate(time.Second))
}
