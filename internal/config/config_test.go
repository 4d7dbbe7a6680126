package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndHasBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for _, name := range []string{"grid", "cascade", "rows", "columns", "half-left", "half-right"} {
		if _, ok := cfg.Layouts[name]; !ok {
			t.Fatalf("expected builtin %q to exist in layouts", name)
		}
	}
	if cfg.Viewport.Width != 1280 || cfg.Viewport.Height != 800 {
		t.Fatalf("unexpected default viewport %+v", cfg.Viewport)
	}
	if cfg.Persistence.Backend != BackendFile || cfg.Persistence.Key != DefaultStateKey {
		t.Fatalf("unexpected default persistence %+v", cfg.Persistence)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DefaultLayout != DefaultBuiltinLayout {
		t.Fatalf("expected default_layout %q, got %q", DefaultBuiltinLayout, res.Config.DefaultLayout)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Cascade != DefaultConfig().Cascade {
		t.Fatalf("expected default cascade, got %+v", res.Config.Cascade)
	}
}

func TestLoadFromPath_OverridesNestedFields(t *testing.T) {
	data := `
viewport:
  width: 1920
gap_size: 8
cascade:
  offset_x: 40
window_defaults:
  title: "Note"
default_group:
  color: "#000000"
persistence:
  backend: SQLite
  debounce_ms: 250
logging:
  enabled: true
  max_age_days: 7
  compress: true
icons:
  - id: files
    glyph: "F"
    label: Files
    x: 20
    y: 20
`
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Viewport.Width != 1920 || cfg.Viewport.Height != 800 {
		t.Fatalf("viewport = %+v, want width overridden only", cfg.Viewport)
	}
	if cfg.GapSize != 8 || cfg.Cascade.OffsetX != 40 || cfg.Cascade.OffsetY != 30 {
		t.Fatalf("gap/cascade = %d %+v", cfg.GapSize, cfg.Cascade)
	}
	if cfg.WindowDefaults.Title != "Note" || cfg.WindowDefaults.Width != 900 {
		t.Fatalf("window_defaults = %+v", cfg.WindowDefaults)
	}
	if cfg.DefaultGroup.Name != "Default" || cfg.DefaultGroup.Color != "#000000" {
		t.Fatalf("default_group = %+v", cfg.DefaultGroup)
	}
	if cfg.Persistence.Backend != BackendSQLite || cfg.Persistence.DebounceMS != 250 {
		t.Fatalf("persistence = %+v", cfg.Persistence)
	}
	if !cfg.Logging.Enabled || cfg.Logging.MaxAgeDays != 7 || !cfg.Logging.Compress || cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if len(cfg.Icons) != 1 || cfg.Icons[0].ID != "files" {
		t.Fatalf("icons = %+v", cfg.Icons)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "viewport:\n  width: 1280\ngap_size: -3\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "gap_size" {
		t.Fatalf("path = %q, want gap_size", verr.Path)
	}
	if !strings.Contains(err.Error(), path+":3:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_DuplicateIconPointsAtItem(t *testing.T) {
	data := "icons:\n  - id: notes\n    label: Notes\n  - id: notes\n    label: Again\n"
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "icons[1]" {
		t.Fatalf("path = %q, want icons[1]", verr.Path)
	}
	if !strings.Contains(err.Error(), path+":4:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"backend":        "persistence:\n  backend: redis\n",
		"mode":           "layouts:\n  x:\n    mode: spiral\n",
		"region":         "layouts:\n  x:\n    tile_region:\n      type: middle\n",
		"default layout": "default_layout: nope\n",
		"viewport":       "viewport:\n  height: 0\n",
		"duplicate icon": "icons:\n  - id: a\n  - id: a\n",
		"logging level":  "logging:\n  level: loud\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", data)
			if _, err := LoadFromPath(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "gap_size: 5\ncascade:\n  base_x: 10\n")
	writeConfig(t, configD, "20-override.yaml", "gap_size: 6\n")

	// Main file overrides includes.
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"gap_size: 7",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GapSize != 7 {
		t.Fatalf("expected gap_size to be 7, got %d", res.Config.GapSize)
	}
	if res.Config.Cascade.BaseX != 10 {
		t.Fatalf("expected included cascade.base_x 10, got %d", res.Config.Cascade.BaseX)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_InheritsBuiltinAndExplainSource(t *testing.T) {
	data := `
layouts:
  dev:
    inherits: "builtin:columns"
    tile_region:
      type: "left-half"
`
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	layout, ok := res.Config.Layouts["dev"]
	if !ok {
		t.Fatalf("expected dev layout")
	}
	if layout.Mode != LayoutModeHorizontal {
		t.Fatalf("expected inherited mode %q, got %q", LayoutModeHorizontal, layout.Mode)
	}
	if res.LayoutBases["dev"] != "columns" {
		t.Fatalf("expected base columns, got %q", res.LayoutBases["dev"])
	}

	val, src, err := Explain(res, "layouts.dev.mode")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != LayoutModeHorizontal {
		t.Fatalf("expected explain value %q, got %#v", LayoutModeHorizontal, val)
	}
	if src.Kind != SourceBuiltin || src.Name != "columns" {
		t.Fatalf("expected builtin source columns, got %#v", src)
	}

	val, src, err = Explain(res, "layouts.dev.tile_region.type")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != RegionLeftHalf || src.Kind != SourceFile || src.Line == 0 {
		t.Fatalf("expected file source for tile_region.type, got %#v %#v", val, src)
	}
}

func TestLoadFromPath_InheritsMustBeBuiltinPrefixed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "layouts:\n  dev:\n    inherits: grid\n")
	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "builtin:") {
		t.Fatalf("expected inherits prefix error, got %v", err)
	}
}

func TestExplain_DefaultsAndUnknownPath(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}

	val, src, err := Explain(res, "cascade.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 800 || src.Kind != SourceDefault {
		t.Fatalf("got %#v %#v", val, src)
	}
	if _, _, err := Explain(res, "hotkey"); err == nil {
		t.Fatalf("expected unknown path error")
	}
	if _, _, err := Explain(res, "layouts.nope.mode"); err == nil {
		t.Fatalf("expected unknown layout error")
	}
}

func TestSaveTo_RoundTripsCustomLayoutsOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GapSize = 4
	cfg.Layouts["wide"] = Layout{Mode: LayoutModeHorizontal, TileRegion: TileRegion{Type: RegionTopHalf}}

	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "half-left") {
		t.Fatalf("builtin layouts should not be written:\n%s", data)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.GapSize != 4 {
		t.Fatalf("gap_size = %d, want 4", res.Config.GapSize)
	}
	if got := res.Config.Layouts["wide"]; got.TileRegion.Type != RegionTopHalf {
		t.Fatalf("wide layout = %+v", got)
	}
}

func TestGetLoggingConfig_AppliesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging = LoggingConfig{Enabled: true}
	got := cfg.GetLoggingConfig()
	if got.MaxSizeMB != DefaultLogMaxSizeMB || got.MaxBackups != DefaultLogMaxBackups || got.PreviewLength != DefaultLogPreviewLength {
		t.Fatalf("logging defaults not applied: %+v", got)
	}
	if got.Level != "info" {
		t.Fatalf("level = %q", got.Level)
	}
}
