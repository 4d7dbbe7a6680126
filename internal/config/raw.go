package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewport struct {
	X      *int `yaml:"x"`
	Y      *int `yaml:"y"`
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawCascade struct {
	BaseX   *int `yaml:"base_x"`
	BaseY   *int `yaml:"base_y"`
	OffsetX *int `yaml:"offset_x"`
	OffsetY *int `yaml:"offset_y"`
	Width   *int `yaml:"width"`
	Height  *int `yaml:"height"`
}

type RawWindowDefaults struct {
	Title  *string `yaml:"title"`
	Width  *int    `yaml:"width"`
	Height *int    `yaml:"height"`
}

type RawDefaultGroup struct {
	Name  *string `yaml:"name"`
	Color *string `yaml:"color"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawLayout struct {
	Inherits   *string        `yaml:"inherits"`
	Mode       *LayoutMode    `yaml:"mode"`
	TileRegion *RawTileRegion `yaml:"tile_region"`
}

type RawPersistence struct {
	Backend    *string `yaml:"backend"`
	Path       *string `yaml:"path"`
	Key        *string `yaml:"key"`
	DebounceMS *int    `yaml:"debounce_ms"`
}

type RawLoggingConfig struct {
	Enabled        *bool   `yaml:"enabled"`
	Level          *string `yaml:"level"`
	File           *string `yaml:"file"`
	MaxSizeMB      *int    `yaml:"max_size_mb"`
	MaxBackups     *int    `yaml:"max_backups"`
	MaxAgeDays     *int    `yaml:"max_age_days"`
	Compress       *bool   `yaml:"compress"`
	IncludeContent *bool   `yaml:"include_content"`
	PreviewLength  *int    `yaml:"preview_length"`
}

type RawConfig struct {
	Include        IncludeList          `yaml:"include"`
	Viewport       *RawViewport         `yaml:"viewport"`
	GapSize        *int                 `yaml:"gap_size"`
	Cascade        *RawCascade          `yaml:"cascade"`
	WindowDefaults *RawWindowDefaults   `yaml:"window_defaults"`
	DefaultGroup   *RawDefaultGroup     `yaml:"default_group"`
	DefaultLayout  *string              `yaml:"default_layout"`
	Layouts        map[string]RawLayout `yaml:"layouts"`
	Persistence    *RawPersistence      `yaml:"persistence"`
	LogLevel       *string              `yaml:"log_level"`
	Logging        *RawLoggingConfig    `yaml:"logging"`
	// Icons replaces the whole list when set; lists are not merged.
	Icons []Icon `yaml:"icons"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Viewport != nil {
		out.Viewport = mergeRawViewport(out.Viewport, overlay.Viewport)
	}
	if overlay.GapSize != nil {
		out.GapSize = overlay.GapSize
	}
	if overlay.Cascade != nil {
		out.Cascade = mergeRawCascade(out.Cascade, overlay.Cascade)
	}
	if overlay.WindowDefaults != nil {
		base := RawWindowDefaults{}
		if out.WindowDefaults != nil {
			base = *out.WindowDefaults
		}
		setIfNotNil(&base.Title, overlay.WindowDefaults.Title)
		setIfNotNil(&base.Width, overlay.WindowDefaults.Width)
		setIfNotNil(&base.Height, overlay.WindowDefaults.Height)
		out.WindowDefaults = &base
	}
	if overlay.DefaultGroup != nil {
		base := RawDefaultGroup{}
		if out.DefaultGroup != nil {
			base = *out.DefaultGroup
		}
		setIfNotNil(&base.Name, overlay.DefaultGroup.Name)
		setIfNotNil(&base.Color, overlay.DefaultGroup.Color)
		out.DefaultGroup = &base
	}
	if overlay.DefaultLayout != nil {
		out.DefaultLayout = overlay.DefaultLayout
	}
	if overlay.Layouts != nil {
		merged := make(map[string]RawLayout, len(out.Layouts)+len(overlay.Layouts))
		for name, layout := range out.Layouts {
			merged[name] = layout
		}
		for name, layout := range overlay.Layouts {
			merged[name] = mergeRawLayout(merged[name], layout)
		}
		out.Layouts = merged
	}
	if overlay.Persistence != nil {
		base := RawPersistence{}
		if out.Persistence != nil {
			base = *out.Persistence
		}
		setIfNotNil(&base.Backend, overlay.Persistence.Backend)
		setIfNotNil(&base.Path, overlay.Persistence.Path)
		setIfNotNil(&base.Key, overlay.Persistence.Key)
		setIfNotNil(&base.DebounceMS, overlay.Persistence.DebounceMS)
		out.Persistence = &base
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		base := RawLoggingConfig{}
		if out.Logging != nil {
			base = *out.Logging
		}
		setIfNotNil(&base.Enabled, overlay.Logging.Enabled)
		setIfNotNil(&base.Level, overlay.Logging.Level)
		setIfNotNil(&base.File, overlay.Logging.File)
		setIfNotNil(&base.MaxSizeMB, overlay.Logging.MaxSizeMB)
		setIfNotNil(&base.MaxBackups, overlay.Logging.MaxBackups)
		setIfNotNil(&base.MaxAgeDays, overlay.Logging.MaxAgeDays)
		setIfNotNil(&base.Compress, overlay.Logging.Compress)
		setIfNotNil(&base.IncludeContent, overlay.Logging.IncludeContent)
		setIfNotNil(&base.PreviewLength, overlay.Logging.PreviewLength)
		out.Logging = &base
	}
	if overlay.Icons != nil {
		out.Icons = overlay.Icons
	}

	return out
}

func setIfNotNil[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func mergeRawViewport(base *RawViewport, overlay *RawViewport) *RawViewport {
	out := RawViewport{}
	if base != nil {
		out = *base
	}
	setIfNotNil(&out.X, overlay.X)
	setIfNotNil(&out.Y, overlay.Y)
	setIfNotNil(&out.Width, overlay.Width)
	setIfNotNil(&out.Height, overlay.Height)
	return &out
}

func mergeRawCascade(base *RawCascade, overlay *RawCascade) *RawCascade {
	out := RawCascade{}
	if base != nil {
		out = *base
	}
	setIfNotNil(&out.BaseX, overlay.BaseX)
	setIfNotNil(&out.BaseY, overlay.BaseY)
	setIfNotNil(&out.OffsetX, overlay.OffsetX)
	setIfNotNil(&out.OffsetY, overlay.OffsetY)
	setIfNotNil(&out.Width, overlay.Width)
	setIfNotNil(&out.Height, overlay.Height)
	return &out
}

func mergeRawTileRegion(base *RawTileRegion, overlay *RawTileRegion) *RawTileRegion {
	out := RawTileRegion{}
	if base != nil {
		out = *base
	}
	setIfNotNil(&out.Type, overlay.Type)
	setIfNotNil(&out.XPercent, overlay.XPercent)
	setIfNotNil(&out.YPercent, overlay.YPercent)
	setIfNotNil(&out.WidthPercent, overlay.WidthPercent)
	setIfNotNil(&out.HeightPercent, overlay.HeightPercent)
	return &out
}

func mergeRawLayout(base RawLayout, overlay RawLayout) RawLayout {
	out := base
	setIfNotNil(&out.Inherits, overlay.Inherits)
	setIfNotNil(&out.Mode, overlay.Mode)
	if overlay.TileRegion != nil {
		out.TileRegion = mergeRawTileRegion(out.TileRegion, overlay.TileRegion)
	}
	return out
}
