package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/deskwm-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, "/deskwm.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}
}

func TestStatePath_PerBackend(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_DATA_HOME", td)

	tests := []struct {
		backend string
		want    string
	}{
		{"file", filepath.Join(td, "deskwm", "state")},
		{"sqlite", filepath.Join(td, "deskwm", "state.db")},
	}
	for _, tt := range tests {
		got, err := StatePath(tt.backend)
		if err != nil {
			t.Fatalf("StatePath(%q) error: %v", tt.backend, err)
		}
		if got != tt.want {
			t.Fatalf("StatePath(%q) = %q, want %q", tt.backend, got, tt.want)
		}
	}
}
