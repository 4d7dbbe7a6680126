package persist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := Open(BackendFile, filepath.Join(dir, "state"))
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	sqlite, err := Open(BackendSQLite, filepath.Join(dir, "db", "state.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	mem, err := Open(BackendMemory, "")
	if err != nil {
		t.Fatalf("Open(memory) error: %v", err)
	}
	stores := map[string]KV{"file": file, "sqlite": sqlite, "memory": mem}
	t.Cleanup(func() {
		for _, kv := range stores {
			_ = kv.Close()
		}
	})
	return stores
}

func TestKV_SetGetDelete(t *testing.T) {
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get("missing"); !errors.Is(err, ErrNotExist) {
				t.Fatalf("Get(missing) error = %v, want ErrNotExist", err)
			}
			if err := kv.Set("k", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := kv.Set("k", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err := kv.Get("k")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `{"a":2}` {
				t.Fatalf("Get = %s, want overwritten value", got)
			}
			if err := kv.Delete("k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := kv.Get("k"); !errors.Is(err, ErrNotExist) {
				t.Fatalf("Get after delete error = %v", err)
			}
			if err := kv.Delete("k"); err != nil {
				t.Fatalf("second Delete: %v", err)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("redis", ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	for _, key := range []string{"", "../x", "a/b", ".."} {
		if err := kv.Set(key, []byte("x")); err == nil {
			t.Fatalf("Set(%q) should fail", key)
		}
	}
}

func TestFileKV_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := kv.Set("state", []byte{byte('0' + i)}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("dir entries = %v, want [state.json]", names)
	}
	info, err := os.Stat(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}
