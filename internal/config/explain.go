package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are every scalar key of the config, for example:
//
//	viewport.width
//	gap_size
//	cascade.offset_x
//	window_defaults.title
//	default_group.color
//	default_layout
//	persistence.backend
//	logging.max_size_mb
//	icons
//	layouts.<name>.mode
//	layouts.<name>.tile_region.type
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if strings.HasPrefix(path, "layouts.") {
		name := layoutNameFromPath(path)
		base := ""
		if name != "" {
			base = res.LayoutBases[name]
		}
		return value, Source{Kind: SourceBuiltin, Name: base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func layoutNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "layouts" {
		return ""
	}
	return parts[1]
}

// scalarPaths maps every fixed path to its value.
func scalarPaths(cfg *Config) map[string]any {
	return map[string]any{
		"viewport.x":              cfg.Viewport.X,
		"viewport.y":              cfg.Viewport.Y,
		"viewport.width":          cfg.Viewport.Width,
		"viewport.height":         cfg.Viewport.Height,
		"gap_size":                cfg.GapSize,
		"cascade.base_x":          cfg.Cascade.BaseX,
		"cascade.base_y":          cfg.Cascade.BaseY,
		"cascade.offset_x":        cfg.Cascade.OffsetX,
		"cascade.offset_y":        cfg.Cascade.OffsetY,
		"cascade.width":           cfg.Cascade.Width,
		"cascade.height":          cfg.Cascade.Height,
		"window_defaults.title":   cfg.WindowDefaults.Title,
		"window_defaults.width":   cfg.WindowDefaults.Width,
		"window_defaults.height":  cfg.WindowDefaults.Height,
		"default_group.name":      cfg.DefaultGroup.Name,
		"default_group.color":     cfg.DefaultGroup.Color,
		"default_layout":          cfg.DefaultLayout,
		"persistence.backend":     cfg.Persistence.Backend,
		"persistence.path":        cfg.Persistence.Path,
		"persistence.key":         cfg.Persistence.Key,
		"persistence.debounce_ms": cfg.Persistence.DebounceMS,
		"log_level":               cfg.LogLevel,
		"logging.enabled":         cfg.Logging.Enabled,
		"logging.level":           cfg.Logging.Level,
		"logging.file":            cfg.Logging.File,
		"logging.max_size_mb":     cfg.Logging.MaxSizeMB,
		"logging.max_backups":     cfg.Logging.MaxBackups,
		"logging.max_age_days":    cfg.Logging.MaxAgeDays,
		"logging.compress":        cfg.Logging.Compress,
		"logging.include_content": cfg.Logging.IncludeContent,
		"logging.preview_length":  cfg.Logging.PreviewLength,
		"icons":                   cfg.Icons,
	}
}

func lookupValue(cfg *Config, path string) (any, error) {
	if strings.HasPrefix(path, "layouts.") {
		return lookupLayoutValue(cfg, path)
	}
	if v, ok := scalarPaths(cfg)[path]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

func lookupLayoutValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	layout, ok := cfg.Layouts[parts[1]]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s", parts[1])
	}
	switch strings.Join(parts[2:], ".") {
	case "":
		return layout, nil
	case "mode":
		return layout.Mode, nil
	case "tile_region":
		return layout.TileRegion, nil
	case "tile_region.type":
		return layout.TileRegion.Type, nil
	case "tile_region.x_percent":
		return layout.TileRegion.XPercent, nil
	case "tile_region.y_percent":
		return layout.TileRegion.YPercent, nil
	case "tile_region.width_percent":
		return layout.TileRegion.WidthPercent, nil
	case "tile_region.height_percent":
		return layout.TileRegion.HeightPercent, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
