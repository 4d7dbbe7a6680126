package daemon

import (
	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/tiling"
	"github.com/1broseidon/deskwm/internal/wm"
)

// ManagerOptions maps the configuration onto manager options.
func ManagerOptions(cfg *config.Config) wm.Options {
	icons := make([]wm.Icon, 0, len(cfg.Icons))
	for _, ic := range cfg.Icons {
		icons = append(icons, wm.Icon{
			ID:     ic.ID,
			Glyph:  ic.Glyph,
			Label:  ic.Label,
			X:      ic.X,
			Y:      ic.Y,
			Action: ic.Action,
		})
	}
	return wm.Options{
		Defaults: wm.WindowDefaults{
			Title:  cfg.WindowDefaults.Title,
			Width:  cfg.WindowDefaults.Width,
			Height: cfg.WindowDefaults.Height,
		},
		DefaultGroup: wm.Group{
			Name:  cfg.DefaultGroup.Name,
			Color: cfg.DefaultGroup.Color,
		},
		Cascade: tiling.Cascade{
			BaseX:   cfg.Cascade.BaseX,
			BaseY:   cfg.Cascade.BaseY,
			OffsetX: cfg.Cascade.OffsetX,
			OffsetY: cfg.Cascade.OffsetY,
			Width:   cfg.Cascade.Width,
			Height:  cfg.Cascade.Height,
		},
		GapSize: cfg.GapSize,
		Icons:   icons,
	}
}

// Viewport returns the configured desktop area.
func Viewport(cfg *config.Config) tiling.Rect {
	return tiling.Rect{
		X:      cfg.Viewport.X,
		Y:      cfg.Viewport.Y,
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
	}
}

// Region converts a configured tile region.
func Region(tr config.TileRegion) tiling.Region {
	return tiling.Region{
		Type:          tiling.RegionType(tr.Type),
		XPercent:      tr.XPercent,
		YPercent:      tr.YPercent,
		WidthPercent:  tr.WidthPercent,
		HeightPercent: tr.HeightPercent,
	}
}

// ActionLogConfig converts the logging section, applying defaults.
func ActionLogConfig(cfg *config.Config) actionlog.Config {
	lc := cfg.GetLoggingConfig()
	return actionlog.Config{
		Enabled:        lc.Enabled,
		Level:          actionlog.ParseLevel(lc.Level),
		FilePath:       lc.File,
		MaxSizeMB:      lc.MaxSizeMB,
		MaxBackups:     lc.MaxBackups,
		MaxAgeDays:     lc.MaxAgeDays,
		Compress:       lc.Compress,
		IncludeContent: lc.IncludeContent,
		PreviewLength:  lc.PreviewLength,
	}
}

// StatePath resolves where the configured backend stores state. The
// memory backend has no path.
func StatePath(cfg *config.Config) (string, error) {
	p := cfg.Persistence
	if p.Backend == config.BackendMemory {
		return "", nil
	}
	if p.Path != "" {
		return p.Path, nil
	}
	return runtimepath.StatePath(p.Backend)
}
