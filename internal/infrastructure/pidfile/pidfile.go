package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is returned by Acquire when a live process owns the file.
var ErrAlreadyRunning = errors.New("wmd daemon is already running")

// PIDFile enforces a single scheduler daemon per host
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the managed file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID, clearing stale or unreadable files first.
func (p *PIDFile) Acquire() error {
	pid, running, err := p.Running()
	if err != nil {
		return err
	}
	if running {
		return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
	}
	if pid != 0 {
		_ = os.Remove(p.path)
	}

	data := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(p.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Running reports the recorded PID and whether that process is alive.
// A missing file yields (0, false, nil); a malformed one is treated as stale.
func (p *PIDFile) Running() (int, bool, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return -1, false, nil
	}
	return pid, isProcessRunning(pid), nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Terminate sends SIGTERM to the recorded process and waits up to timeout for
// it to exit. A missing or stale file is not an error.
func (p *PIDFile) Terminate(timeout time.Duration) error {
	pid, running, err := p.Running()
	if err != nil || !running {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("process %d did not exit within %s", pid, timeout)
}

func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// FindProcess always succeeds on Unix; signal 0 probes existence.
	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true
	default:
		return false
	}
}
