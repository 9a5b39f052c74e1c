// Package pid guards the reapply loop with a PID file so only one loop
// drives RyzenAdj at a time.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/ryzenctl/internal/errors"
)

const (
	pidFile = "ryzenctl.pid"
)

// Path returns the PID file location inside dir. An empty dir means the
// system temporary directory.
func Path(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}

	return filepath.Join(dir, pidFile)
}

// Write writes the current process ID to the PID file in dir. A stale file
// left by a dead process is replaced.
func Write(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	if running, err := Running(dir); err != nil {
		return err
	} else if running != 0 {
		return errFactory.WithData(errors.ErrAlreadyRunning, running)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return create(path)
}

// create writes the PID file exclusively. A file that appeared after the
// stale check belongs to another instance.
func create(path string) error {
	errFactory := errors.New()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if os.IsExist(err) {
		return errFactory.WithMessage(errors.ErrAlreadyRunning, path)
	}
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = f.Close()
		return errFactory.Wrap(errors.ErrInternal, err)
	}
	if err := f.Close(); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Running returns the PID recorded in dir if that process is alive, or 0.
func Running(dir string) (int, error) {
	errFactory := errors.New()

	bytes, err := os.ReadFile(Path(dir))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrInternal, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil || pid <= 0 {
		// Garbage is treated as stale.
		return 0, nil
	}
	if pid == os.Getpid() {
		return 0, nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, nil
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return 0, nil
	}

	return pid, nil
}

// Remove removes the PID file from dir.
func Remove(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
