package persist

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLockPath(t *testing.T) {
	tests := []struct {
		backend, path, want string
	}{
		{"file", "/data/deskwm", "/data/deskwm/deskwm.lock"},
		{"", "/data/deskwm", "/data/deskwm/deskwm.lock"},
		{"sqlite", "/data/state.db", "/data/state.db.lock"},
		{"memory", "/ignored", ""},
		{"file", "", ""},
	}
	for _, tt := range tests {
		if got := LockPath(tt.backend, tt.path); got != tt.want {
			t.Fatalf("LockPath(%q, %q) = %q, want %q", tt.backend, tt.path, got, tt.want)
		}
	}
}

func TestAcquireLock_SecondHolderRejectedUntilRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "deskwm.lock")

	first, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := AcquireLock(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("second AcquireLock error = %v, want ErrLocked", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	again, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	defer again.Release()
}
