// Package actionlog writes one audit line per state-changing command.
package actionlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/1broseidon/deskwm/internal/wm"
)

// Level defines the logging verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ActionType is the tag written between brackets on each line.
type ActionType string

// ActionFor maps a manager operation to its log tag, e.g. "move-to-group"
// becomes "MOVE-TO-GROUP".
func ActionFor(op wm.Op) ActionType {
	return ActionType(strings.ToUpper(string(op)))
}

// actionLevel returns the level an action is logged at. High-frequency
// edits are debug so the default level keeps the log readable.
func actionLevel(action ActionType) Level {
	switch wm.Op(strings.ToLower(string(action))) {
	case wm.OpFocus, wm.OpMove, wm.OpResize, wm.OpContent, wm.OpIconMove:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Config holds configuration for the action logger.
type Config struct {
	Enabled        bool
	Level          Level
	FilePath       string
	MaxSizeMB      int
	MaxBackups     int
	MaxAgeDays     int
	Compress       bool
	IncludeContent bool
	PreviewLength  int
}

// Logger writes action lines. A nil *Logger discards everything.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	config Config
	now    func() time.Time
}

// New creates a logger writing to a size-rotated file.
func New(cfg Config) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg}, nil
	}
	if strings.TrimSpace(cfg.FilePath) == "" {
		return nil, fmt.Errorf("action log file path is required")
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return &Logger{out: rotator, closer: rotator, config: cfg, now: time.Now}, nil
}

// NewWithWriter creates an enabled logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	cfg.Enabled = true
	return &Logger{out: w, config: cfg, now: time.Now}
}

// Log records an action. windowID <= 0 and an empty group are omitted.
func (l *Logger) Log(action ActionType, windowID int, group string, details map[string]any) {
	if l == nil || !l.config.Enabled {
		return
	}
	if actionLevel(action) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")

	if windowID > 0 {
		sb.WriteString(fmt.Sprintf(" window=%d", windowID))
	}
	if group != "" {
		sb.WriteString(" group=")
		sb.WriteString(group)
	}

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			switch val := details[k].(type) {
			case string:
				sb.WriteString(fmt.Sprintf(" %s=%q", k, val))
			default:
				sb.WriteString(fmt.Sprintf(" %s=%v", k, val))
			}
		}
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(l.out, sb.String()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write action log entry: %v\n", err)
	}
}

// Event logs a manager change event with optional extra details.
func (l *Logger) Event(ev wm.Event, details map[string]any) {
	if l == nil {
		return
	}
	if ev.IconID != "" {
		if details == nil {
			details = map[string]any{}
		}
		details["icon"] = ev.IconID
	}
	if ev.Detail != "" {
		if details == nil {
			details = map[string]any{}
		}
		switch ev.Op {
		case wm.OpTitle:
			details["title"] = ev.Detail
		default:
			details["detail"] = ev.Detail
		}
	}
	l.Log(ActionFor(ev.Op), ev.WindowID, ev.GroupID, details)
}

// ContentDetails describes a content payload: its length always, and a
// truncated preview only when content logging is enabled.
func (l *Logger) ContentDetails(content string) map[string]any {
	details := map[string]any{"content_len": len(content)}
	if l != nil && l.config.IncludeContent {
		details["content"] = Truncate(content, l.config.PreviewLength)
	}
	return details
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.out = nil
	return err
}

// ParseLevel converts a string to Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Truncate returns a preview of a string, truncating if necessary.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
