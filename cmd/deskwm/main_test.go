package main

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/deskwm/internal/config"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceBuiltin, Name: "columns"}, "builtin:columns"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := slogLevel(in); got != want {
			t.Fatalf("slogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("12"); err != nil || id != 12 {
		t.Fatalf("parseID(12) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-1", "x"} {
		if _, err := parseID(bad); err == nil {
			t.Fatalf("parseID(%q) succeeded", bad)
		}
	}
}

func TestParseInts(t *testing.T) {
	v, err := parseInts([]string{"x", "y"}, []string{"10", "-20"})
	if err != nil || v[0] != 10 || v[1] != -20 {
		t.Fatalf("parseInts = %v, %v", v, err)
	}
	if _, err := parseInts([]string{"x", "y"}, []string{"10"}); err == nil {
		t.Fatalf("expected arity error")
	}
	_, err = parseInts([]string{"x", "y"}, []string{"10", "up"})
	if err == nil || !strings.Contains(err.Error(), "invalid y") {
		t.Fatalf("err = %v, want invalid y", err)
	}
}

func TestReadContent(t *testing.T) {
	got, err := readContent("-", strings.NewReader("from stdin\n"))
	if err != nil || got != "from stdin\n" {
		t.Fatalf("readContent(-) = %q, %v", got, err)
	}
	got, err = readContent("literal", errReader{})
	if err != nil || got != "literal" {
		t.Fatalf("readContent(literal) = %q, %v", got, err)
	}
	if _, err := readContent("-", errReader{}); err == nil {
		t.Fatalf("expected stdin read error")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestOptionalInt(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var x, y optionalInt
	fs.Var(&x, "x", "")
	fs.Var(&y, "y", "")
	if err := fs.Parse([]string{"-x", "0"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p := x.ptr(); p == nil || *p != 0 {
		t.Fatalf("x.ptr() = %v, want pointer to 0", p)
	}
	if y.ptr() != nil {
		t.Fatalf("y.ptr() = %v, want nil", y.ptr())
	}
	if err := fs.Parse([]string{"-y", "abc"}); err == nil {
		t.Fatalf("expected invalid integer error")
	}
}

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if code, ok := parseFlags(fs, []string{"--help"}); ok || code != 0 {
		t.Fatalf("--help = (%d, %v), want (0, false)", code, ok)
	}
	fs = flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if code, ok := parseFlags(fs, []string{"--nope"}); ok || code != 2 {
		t.Fatalf("--nope = (%d, %v), want (2, false)", code, ok)
	}
}

func TestLayoutEntries(t *testing.T) {
	res, err := config.LoadFromPath(t.TempDir() + "/missing.yaml")
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	entries := layoutEntries(res)
	if len(entries) != len(res.Config.Layouts) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(res.Config.Layouts))
	}
	defaults := 0
	for i, e := range entries {
		if i > 0 && entries[i-1].Name > e.Name {
			t.Fatalf("entries not sorted: %q before %q", entries[i-1].Name, e.Name)
		}
		if e.Default {
			defaults++
			if e.Name != res.Config.DefaultLayout {
				t.Fatalf("default entry = %q, want %q", e.Name, res.Config.DefaultLayout)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("default entries = %d, want 1", defaults)
	}
}
