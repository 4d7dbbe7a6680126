package preview

import (
	"strings"

	"github.com/1broseidon/deskwm/internal/tiling"
)

type canvas struct {
	width, height int
	cells         [][]rune
}

// newCanvas returns nil when the size cannot hold a border and one tile.
func newCanvas(width, height int) *canvas {
	if width < 5 || height < 3 {
		return nil
	}
	c := &canvas{width: width, height: height, cells: make([][]rune, height)}
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", width))
	}
	return c
}

// drawTile maps rect from a monW×monH space onto the canvas interior. Tiles
// painted later overwrite earlier ones, interior included.
func (c *canvas) drawTile(rect tiling.Rect, label string, monW, monH int) {
	x1 := rect.X * c.width / monW
	y1 := rect.Y * c.height / monH
	x2 := (rect.X + rect.Width) * c.width / monW
	y2 := (rect.Y + rect.Height) * c.height / monH

	// Clamp to canvas bounds
	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, c.width-2)
	y2 = min(y2, c.height-2)

	// Need at least 2x2 for a tile
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			c.cells[y][x] = ' '
		}
	}
	for x := x1; x <= x2; x++ {
		c.cells[y1][x] = '─'
		c.cells[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		c.cells[y][x1] = '│'
		c.cells[y][x2] = '│'
	}
	c.cells[y1][x1] = '┌'
	c.cells[y1][x2] = '┐'
	c.cells[y2][x1] = '└'
	c.cells[y2][x2] = '┘'

	// Label in the center
	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				c.cells[centerY][startX+i] = r
			}
		}
	}
}

func (c *canvas) drawBorder() {
	for x := 0; x < c.width; x++ {
		c.cells[0][x] = '═'
		c.cells[c.height-1][x] = '═'
	}
	for y := 0; y < c.height; y++ {
		c.cells[y][0] = '║'
		c.cells[y][c.width-1] = '║'
	}
	c.cells[0][0] = '╔'
	c.cells[0][c.width-1] = '╗'
	c.cells[c.height-1][0] = '╚'
	c.cells[c.height-1][c.width-1] = '╝'
}

func (c *canvas) lines() []string {
	out := make([]string, c.height)
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
