package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults and returns the
// config plus the builtin each layout was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if v := raw.Viewport; v != nil {
		cfg.Viewport.X = derefInt(v.X, cfg.Viewport.X)
		cfg.Viewport.Y = derefInt(v.Y, cfg.Viewport.Y)
		cfg.Viewport.Width = derefInt(v.Width, cfg.Viewport.Width)
		cfg.Viewport.Height = derefInt(v.Height, cfg.Viewport.Height)
	}
	cfg.GapSize = derefInt(raw.GapSize, cfg.GapSize)
	if c := raw.Cascade; c != nil {
		cfg.Cascade.BaseX = derefInt(c.BaseX, cfg.Cascade.BaseX)
		cfg.Cascade.BaseY = derefInt(c.BaseY, cfg.Cascade.BaseY)
		cfg.Cascade.OffsetX = derefInt(c.OffsetX, cfg.Cascade.OffsetX)
		cfg.Cascade.OffsetY = derefInt(c.OffsetY, cfg.Cascade.OffsetY)
		cfg.Cascade.Width = derefInt(c.Width, cfg.Cascade.Width)
		cfg.Cascade.Height = derefInt(c.Height, cfg.Cascade.Height)
	}
	if w := raw.WindowDefaults; w != nil {
		cfg.WindowDefaults.Title = derefString(w.Title, cfg.WindowDefaults.Title)
		cfg.WindowDefaults.Width = derefInt(w.Width, cfg.WindowDefaults.Width)
		cfg.WindowDefaults.Height = derefInt(w.Height, cfg.WindowDefaults.Height)
	}
	if g := raw.DefaultGroup; g != nil {
		cfg.DefaultGroup.Name = derefString(g.Name, cfg.DefaultGroup.Name)
		cfg.DefaultGroup.Color = derefString(g.Color, cfg.DefaultGroup.Color)
	}
	if p := raw.Persistence; p != nil {
		cfg.Persistence.Backend = strings.ToLower(strings.TrimSpace(derefString(p.Backend, cfg.Persistence.Backend)))
		cfg.Persistence.Path = derefString(p.Path, cfg.Persistence.Path)
		cfg.Persistence.Key = derefString(p.Key, cfg.Persistence.Key)
		cfg.Persistence.DebounceMS = derefInt(p.DebounceMS, cfg.Persistence.DebounceMS)
	}
	cfg.LogLevel = derefString(raw.LogLevel, cfg.LogLevel)
	if l := raw.Logging; l != nil {
		cfg.Logging.Enabled = derefBool(l.Enabled, cfg.Logging.Enabled)
		cfg.Logging.Level = derefString(l.Level, cfg.Logging.Level)
		cfg.Logging.File = derefString(l.File, cfg.Logging.File)
		cfg.Logging.MaxSizeMB = derefInt(l.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxBackups = derefInt(l.MaxBackups, cfg.Logging.MaxBackups)
		cfg.Logging.MaxAgeDays = derefInt(l.MaxAgeDays, cfg.Logging.MaxAgeDays)
		cfg.Logging.Compress = derefBool(l.Compress, cfg.Logging.Compress)
		cfg.Logging.IncludeContent = derefBool(l.IncludeContent, cfg.Logging.IncludeContent)
		cfg.Logging.PreviewLength = derefInt(l.PreviewLength, cfg.Logging.PreviewLength)
	}
	if raw.Icons != nil {
		cfg.Icons = append([]Icon(nil), raw.Icons...)
	}

	layoutBases, err := applyLayouts(cfg, raw)
	if err != nil {
		return nil, nil, err
	}
	cfg.DefaultLayout = derefString(raw.DefaultLayout, cfg.DefaultLayout)

	return cfg, layoutBases, nil
}

func applyLayouts(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinLayouts()

	// Start with built-ins.
	cfg.Layouts = make(map[string]Layout, len(builtin))
	for name, layout := range builtin {
		cfg.Layouts[name] = layout
	}

	layoutBases := make(map[string]string)
	for name := range cfg.Layouts {
		layoutBases[name] = name
	}

	// Apply user layout patches.
	for _, name := range sortedKeys(raw.Layouts) {
		patch := raw.Layouts[name]
		baseName, baseLayout, err := selectLayoutBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}

		merged := mergeLayoutPatch(baseLayout, patch)
		if err := validateLayout(&merged); err != nil {
			return nil, &ValidationError{Path: "layouts." + name, Err: err}
		}

		cfg.Layouts[name] = merged
		layoutBases[name] = baseName
	}

	return layoutBases, nil
}

func selectLayoutBase(name string, patch RawLayout, builtin map[string]Layout) (string, Layout, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinLayout
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Layout{}, &ValidationError{
				Path: "layouts." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	baseLayout, ok := builtin[baseName]
	if !ok {
		return "", Layout{}, &ValidationError{
			Path: "layouts." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin layout %q", baseName),
		}
	}

	return baseName, baseLayout, nil
}

func mergeLayoutPatch(base Layout, patch RawLayout) Layout {
	out := base

	if patch.Mode != nil {
		out.Mode = *patch.Mode
	}
	if tr := patch.TileRegion; tr != nil {
		if tr.Type != nil {
			out.TileRegion.Type = *tr.Type
		}
		out.TileRegion.XPercent = derefInt(tr.XPercent, out.TileRegion.XPercent)
		out.TileRegion.YPercent = derefInt(tr.YPercent, out.TileRegion.YPercent)
		out.TileRegion.WidthPercent = derefInt(tr.WidthPercent, out.TileRegion.WidthPercent)
		out.TileRegion.HeightPercent = derefInt(tr.HeightPercent, out.TileRegion.HeightPercent)

		if out.TileRegion.Type == RegionCustom {
			// Only default the size fields the user didn't set.
			if tr.WidthPercent == nil && out.TileRegion.WidthPercent == 0 {
				out.TileRegion.WidthPercent = 100
			}
			if tr.HeightPercent == nil && out.TileRegion.HeightPercent == 0 {
				out.TileRegion.HeightPercent = 100
			}
		}
	}

	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
