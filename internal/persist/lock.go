package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned by AcquireLock when another process owns the store.
var ErrLocked = errors.New("state store is in use by another process")

// Lock is an exclusive advisory lock on a store. The kernel drops it when
// the holding process exits, so a crash never leaves a stale lock.
type Lock struct {
	f    *os.File
	path string
}

// LockPath returns the lock file guarding the store at path, or "" when
// the backend keeps nothing on disk.
func LockPath(backend, path string) string {
	if path == "" {
		return ""
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return filepath.Join(path, "deskwm.lock")
	case BackendSQLite:
		return path + ".lock"
	default:
		return ""
	}
}

// AcquireLock takes the lock at path without blocking.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	// The pid is informational.
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &Lock{f: f, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil
	return errors.Join(err, closeErr)
}
