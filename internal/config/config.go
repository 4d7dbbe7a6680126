package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayoutMode names an arrangement algorithm.
type LayoutMode string

const (
	LayoutModeCascade    LayoutMode = "cascade"    // Diagonal stack with fixed size.
	LayoutModeHorizontal LayoutMode = "horizontal" // Side-by-side columns, full height.
	LayoutModeVertical   LayoutMode = "vertical"   // Stacked rows, full width.
	LayoutModeGrid       LayoutMode = "grid"       // Dynamic grid based on count.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines the part of the viewport a layout fills.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// Layout is a named arrangement preset.
type Layout struct {
	Mode       LayoutMode `yaml:"mode"`
	TileRegion TileRegion `yaml:"tile_region"`
}

// Viewport is the desktop area arrangements fill.
type Viewport struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Cascade holds the cascade arrangement parameters.
type Cascade struct {
	BaseX   int `yaml:"base_x"`
	BaseY   int `yaml:"base_y"`
	OffsetX int `yaml:"offset_x"`
	OffsetY int `yaml:"offset_y"`
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
}

// WindowDefaults fill in fields a create request leaves out.
type WindowDefaults struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DefaultGroup is the display name and color of the built-in group.
type DefaultGroup struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Persistence backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// PersistenceConfig selects where snapshots are stored.
type PersistenceConfig struct {
	// Backend is one of file, sqlite, memory.
	Backend string `yaml:"backend"`
	// Path is the state directory (file) or database file (sqlite).
	// Empty uses the data directory.
	Path string `yaml:"path,omitempty"`
	Key  string `yaml:"key"`
	// DebounceMS delays writes; 0 writes through on every change.
	DebounceMS int `yaml:"debounce_ms"`
}

// LoggingConfig configures the action log.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/deskwm/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxBackups is the number of rotated files to keep (default: 3)
	MaxBackups int `yaml:"max_backups,omitempty"`
	// MaxAgeDays removes rotated files older than this; 0 keeps them.
	MaxAgeDays int `yaml:"max_age_days,omitempty"`
	// Compress gzips rotated files.
	Compress bool `yaml:"compress,omitempty"`
	// IncludeContent logs window content previews (privacy risk, default: false)
	IncludeContent bool `yaml:"include_content,omitempty"`
	// PreviewLength is the number of characters to preview in log (default: 50)
	PreviewLength int `yaml:"preview_length,omitempty"`
}

// Icon is a default desktop icon.
type Icon struct {
	ID     string `yaml:"id"`
	Glyph  string `yaml:"glyph"`
	Label  string `yaml:"label"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Action string `yaml:"action,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Viewport       Viewport          `yaml:"viewport"`
	GapSize        int               `yaml:"gap_size"`
	Cascade        Cascade           `yaml:"cascade"`
	WindowDefaults WindowDefaults    `yaml:"window_defaults"`
	DefaultGroup   DefaultGroup      `yaml:"default_group"`
	DefaultLayout  string            `yaml:"default_layout"`
	Layouts        map[string]Layout `yaml:"layouts"`
	Persistence    PersistenceConfig `yaml:"persistence"`
	LogLevel       string            `yaml:"log_level"`
	Logging        LoggingConfig     `yaml:"logging,omitempty"`
	Icons          []Icon            `yaml:"icons,omitempty"`
}

const (
	DefaultLogMaxSizeMB     = 10
	DefaultLogMaxBackups    = 3
	DefaultLogPreviewLength = 50
	DefaultStateKey         = "windowManagerState"
)

func DefaultConfig() *Config {
	return &Config{
		Viewport: Viewport{Width: 1280, Height: 800},
		GapSize:  0,
		Cascade: Cascade{
			BaseX:   50,
			BaseY:   80,
			OffsetX: 30,
			OffsetY: 30,
			Width:   800,
			Height:  500,
		},
		WindowDefaults: WindowDefaults{Title: "Untitled", Width: 900, Height: 600},
		DefaultGroup:   DefaultGroup{Name: "Default", Color: "#64748b"},
		DefaultLayout:  DefaultBuiltinLayout,
		Layouts:        BuiltinLayouts(),
		Persistence: PersistenceConfig{
			Backend: BackendFile,
			Key:     DefaultStateKey,
		},
		LogLevel: "info",
		Logging: LoggingConfig{
			Level:         "info",
			MaxSizeMB:     DefaultLogMaxSizeMB,
			MaxBackups:    DefaultLogMaxBackups,
			PreviewLength: DefaultLogPreviewLength,
		},
	}
}

// GetLoggingConfig returns the logging config with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	cfg := c.Logging
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = DefaultLogMaxBackups
	}
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = DefaultLogPreviewLength
	}
	if cfg.File == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.File = filepath.Join(home, ".local", "share", "deskwm", "actions.log")
		}
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include/inherits structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Layouts = layoutsForSave(c.Layouts)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func layoutsForSave(layouts map[string]Layout) map[string]Layout {
	builtin := BuiltinLayouts()
	out := make(map[string]Layout)
	for name, layout := range layouts {
		if base, ok := builtin[name]; ok && base == layout {
			continue
		}
		out[name] = layout
	}
	return out
}

// GetLayout retrieves a layout by name with validation.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}

	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", name, err)
	}

	return &layout, nil
}

// GetDefaultLayout retrieves the default layout.
func (c *Config) GetDefaultLayout() (*Layout, error) {
	return c.GetLayout(c.DefaultLayout)
}

// LayoutNames returns the configured layout names in sorted order.
func (c *Config) LayoutNames() []string {
	return sortedKeys(c.Layouts)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if c.Cascade.Width <= 0 || c.Cascade.Height <= 0 {
		return &ValidationError{Path: "cascade", Err: fmt.Errorf("cascade width and height must be > 0")}
	}
	if c.WindowDefaults.Width <= 0 || c.WindowDefaults.Height <= 0 {
		return &ValidationError{Path: "window_defaults", Err: fmt.Errorf("window_defaults width and height must be > 0")}
	}
	if strings.TrimSpace(c.DefaultGroup.Name) == "" {
		return &ValidationError{Path: "default_group.name", Err: fmt.Errorf("default_group.name is required")}
	}
	switch c.Persistence.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return &ValidationError{Path: "persistence.backend", Err: fmt.Errorf("backend must be one of: file, sqlite, memory")}
	}
	if strings.TrimSpace(c.Persistence.Key) == "" {
		return &ValidationError{Path: "persistence.key", Err: fmt.Errorf("persistence.key is required")}
	}
	if c.Persistence.DebounceMS < 0 {
		return &ValidationError{Path: "persistence.debounce_ms", Err: fmt.Errorf("debounce_ms must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 || c.Logging.PreviewLength < 0 {
		return &ValidationError{Path: "logging", Err: fmt.Errorf("logging sizes and counts must be >= 0")}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if _, ok := c.Layouts[c.DefaultLayout]; !ok {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout %q not found in layouts", c.DefaultLayout)}
	}
	for _, name := range sortedKeys(c.Layouts) {
		layout := c.Layouts[name]
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}

	seen := make(map[string]bool, len(c.Icons))
	for i, icon := range c.Icons {
		id := strings.TrimSpace(icon.ID)
		if id == "" {
			return &ValidationError{Path: fmt.Sprintf("icons[%d]", i), Err: fmt.Errorf("icon id is required")}
		}
		if seen[id] {
			return &ValidationError{Path: fmt.Sprintf("icons[%d]", i), Err: fmt.Errorf("duplicate icon id %q", id)}
		}
		seen[id] = true
	}

	return nil
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout *Layout) error {
	switch layout.Mode {
	case LayoutModeCascade, LayoutModeHorizontal, LayoutModeVertical, LayoutModeGrid:
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	switch layout.TileRegion.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		// ok
	case RegionCustom:
		if layout.TileRegion.XPercent < 0 || layout.TileRegion.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if layout.TileRegion.YPercent < 0 || layout.TileRegion.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if layout.TileRegion.WidthPercent <= 0 || layout.TileRegion.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if layout.TileRegion.HeightPercent <= 0 || layout.TileRegion.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if layout.TileRegion.XPercent+layout.TileRegion.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if layout.TileRegion.YPercent+layout.TileRegion.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", layout.TileRegion.Type)
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
