// Package preview draws window geometry as box-drawing text for the CLI.
package preview

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/deskwm/internal/tiling"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Options control rendering.
type Options struct {
	// Width and Height are the canvas size in characters, border included.
	Width  int
	Height int
	// Color enables lipgloss styling of the header and legend.
	Color bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dirtyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

// TerminalOptions sizes the canvas to the terminal on f, falling back to
// 80x24 without color when f is not a terminal.
func TerminalOptions(f *os.File) Options {
	opts := Options{Width: 80, Height: 24}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return opts
	}
	opts.Color = true
	if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
		opts.Width = w
		// Leave room for the header and a few legend lines.
		opts.Height = max(8, min(h-8, w/3))
	}
	return opts
}

// RenderSnapshot draws every visible window of snap, scaled from viewport
// onto the canvas, between a header and a legend.
func RenderSnapshot(snap *wm.Snapshot, viewport tiling.Rect, opts Options) string {
	style := func(s lipgloss.Style, text string) string {
		if !opts.Color {
			return text
		}
		return s.Render(text)
	}

	var sb strings.Builder
	header := fmt.Sprintf("%d windows • %d groups • viewport %d×%d",
		len(snap.Windows), len(snap.Groups), viewport.Width, viewport.Height)
	sb.WriteString(style(titleStyle, header))
	sb.WriteString("\n")

	for _, line := range DrawSnapshot(snap, viewport, opts.Width, opts.Height) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	groupNames := make(map[string]string, len(snap.Groups))
	for _, g := range snap.Groups {
		groupNames[g.ID] = g.Name
	}
	for _, w := range snap.Windows {
		line := fmt.Sprintf("%3d  %-24s %-12s %4d,%-4d %4d×%-4d z=%d",
			w.ID, truncate(w.Title, 24), truncate(groupNames[w.GroupID], 12),
			w.X, w.Y, w.Width, w.Height, w.ZIndex)
		if flags := Flags(w); len(flags) > 0 {
			line += " [" + strings.Join(flags, ",") + "]"
		}
		switch {
		case w.IsActive:
			line = style(activeStyle, line+" *")
		case w.IsMinimized:
			line = style(dimStyle, line)
		}
		if w.Dirty() {
			line += " " + style(dirtyStyle, "(unsaved)")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Flags lists the display flags of w: max, min and sidebar:<side>.
func Flags(w wm.Window) []string {
	var flags []string
	if w.IsMaximized {
		flags = append(flags, "max")
	}
	if w.IsMinimized {
		flags = append(flags, "min")
	}
	if w.SidebarMode {
		flags = append(flags, "sidebar:"+w.SidebarSide)
	}
	return flags
}

// DrawSnapshot returns only the canvas of RenderSnapshot. Windows are
// painted bottom to top so the topmost wins where they overlap.
func DrawSnapshot(snap *wm.Snapshot, viewport tiling.Rect, width, height int) []string {
	canvas := newCanvas(width, height)
	if canvas == nil || viewport.Width <= 0 || viewport.Height <= 0 {
		return emptyCanvas(width, height)
	}

	visible := make([]wm.Window, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		if !w.IsMinimized {
			visible = append(visible, w)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].ZIndex < visible[j].ZIndex })

	for _, w := range visible {
		r := w.Rect()
		if w.IsMaximized {
			r = viewport
		}
		r.X -= viewport.X
		r.Y -= viewport.Y
		canvas.drawTile(r, fmt.Sprintf("%d", w.ID), viewport.Width, viewport.Height)
	}
	canvas.drawBorder()
	return canvas.lines()
}

// RenderLayout draws the tiles a layout would produce for tileCount windows.
func RenderLayout(mode tiling.Mode, region tiling.Region, tileCount, width, height int) []string {
	canvas := newCanvas(width, height)
	if canvas == nil {
		return emptyCanvas(width, height)
	}

	// Each character represents a 2x2 "pixel" block.
	monitor := tiling.Rect{Width: width * 2, Height: height * 2}
	adjusted := tiling.ApplyRegion(monitor, region)

	cascade := tiling.Cascade{
		BaseX:   adjusted.X + 2,
		BaseY:   adjusted.Y + 2,
		OffsetX: 4,
		OffsetY: 2,
		Width:   adjusted.Width / 2,
		Height:  adjusted.Height / 2,
	}
	rects, err := tiling.Positions(mode, tileCount, adjusted, 1, cascade)
	if err != nil {
		rects, _ = tiling.GridPositions(tileCount, adjusted, 0)
	}
	for i, rect := range rects {
		canvas.drawTile(rect, fmt.Sprintf("%d", i+1), monitor.Width, monitor.Height)
	}
	canvas.drawBorder()
	return canvas.lines()
}

// SummarizeLayout describes tile sizes for tileCount windows on viewport.
func SummarizeLayout(mode tiling.Mode, region tiling.Region, tileCount int, viewport tiling.Rect, gapSize int, cascade tiling.Cascade) string {
	if tileCount < 1 {
		tileCount = 1
	}
	rects, err := tiling.Positions(mode, tileCount, tiling.ApplyRegion(viewport, region), max(gapSize, 0), cascade)
	if err != nil {
		return err.Error()
	}
	if len(rects) == 0 {
		return "no tiles"
	}

	minW, minH := rects[0].Width, rects[0].Height
	maxW, maxH := rects[0].Width, rects[0].Height
	for _, r := range rects[1:] {
		minW, minH = min(minW, r.Width), min(minH, r.Height)
		maxW, maxH = max(maxW, r.Width), max(maxH, r.Height)
	}

	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d tiles • %d×%d px each", len(rects), minW, minH)
	}
	return fmt.Sprintf("%d tiles • min %d×%d • max %d×%d", len(rects), minW, minH, maxW, maxH)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
