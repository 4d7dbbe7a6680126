package tiling

import (
	"fmt"
	"math"
)

// Rect represents a window position and size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Mode names an arrangement algorithm.
type Mode string

const (
	ModeCascade    Mode = "cascade"    // Diagonal stack with fixed size.
	ModeHorizontal Mode = "horizontal" // Side-by-side columns, full height.
	ModeVertical   Mode = "vertical"   // Stacked rows, full width.
	ModeGrid       Mode = "grid"       // Dynamic grid based on count.
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeCascade, ModeHorizontal, ModeVertical, ModeGrid:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported layout mode: %q", s)
	}
}

// Cascade holds the parameters of the cascade arrangement.
type Cascade struct {
	BaseX   int
	BaseY   int
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// DefaultCascade returns the stock cascade parameters.
func DefaultCascade() Cascade {
	return Cascade{BaseX: 50, BaseY: 80, OffsetX: 30, OffsetY: 30, Width: 800, Height: 500}
}

// CascadePositions places window i at (BaseX + i*OffsetX, BaseY + i*OffsetY)
// with the fixed cascade size.
func CascadePositions(numWindows int, c Cascade) []Rect {
	if numWindows <= 0 {
		return nil
	}
	positions := make([]Rect, numWindows)
	for i := range positions {
		positions[i] = Rect{
			X:      c.BaseX + i*c.OffsetX,
			Y:      c.BaseY + i*c.OffsetY,
			Width:  c.Width,
			Height: c.Height,
		}
	}
	return positions
}

// CalculateGrid determines the grid dimensions for the given number of windows.
// One or two windows use two columns; beyond that the column count is the
// ceiling of the square root.
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	if numWindows <= 2 {
		cols = 2
	} else {
		cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	}
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// HorizontalPositions splits the viewport width evenly, left to right.
func HorizontalPositions(numWindows int, viewport Rect, gapSize int) ([]Rect, error) {
	return gridPositions(numWindows, 1, numWindows, viewport, gapSize)
}

// VerticalPositions splits the viewport height evenly, top to bottom.
func VerticalPositions(numWindows int, viewport Rect, gapSize int) ([]Rect, error) {
	return gridPositions(numWindows, numWindows, 1, viewport, gapSize)
}

// GridPositions computes window positions for a grid layout with gaps.
// Window i lands in column i%cols, row i/cols.
func GridPositions(numWindows int, viewport Rect, gapSize int) ([]Rect, error) {
	rows, cols := CalculateGrid(numWindows)
	return gridPositions(numWindows, rows, cols, viewport, gapSize)
}

func gridPositions(numWindows, rows, cols int, viewport Rect, gapSize int) ([]Rect, error) {
	if numWindows <= 0 {
		return nil, nil
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}
	if gapSize < 0 {
		gapSize = 0
	}

	// Gaps sit before each cell and after the last one.
	totalHorizontalGaps := (cols + 1) * gapSize
	totalVerticalGaps := (rows + 1) * gapSize

	cellWidth := (viewport.Width - totalHorizontalGaps) / cols
	cellHeight := (viewport.Height - totalVerticalGaps) / rows

	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: viewport=%dx%d rows=%d cols=%d gap=%d (cell=%dx%d)",
			viewport.Width, viewport.Height, rows, cols, gapSize, cellWidth, cellHeight,
		)
	}

	positions := make([]Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		positions[i] = Rect{
			X:      viewport.X + gapSize + col*(cellWidth+gapSize),
			Y:      viewport.Y + gapSize + row*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions, nil
}

// Positions dispatches to the algorithm named by mode. The viewport is
// ignored by cascade.
func Positions(mode Mode, numWindows int, viewport Rect, gapSize int, cascade Cascade) ([]Rect, error) {
	switch mode {
	case ModeCascade:
		return CascadePositions(numWindows, cascade), nil
	case ModeHorizontal:
		return HorizontalPositions(numWindows, viewport, gapSize)
	case ModeVertical:
		return VerticalPositions(numWindows, viewport, gapSize)
	case ModeGrid:
		return GridPositions(numWindows, viewport, gapSize)
	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", mode)
	}
}
