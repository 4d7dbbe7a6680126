package tiling

import "testing"

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n          int
		rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 2},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{5, 2, 3},
		{9, 3, 3},
		{10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("CalculateGrid(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestGridPositions_FiveWindows(t *testing.T) {
	viewport := Rect{X: 0, Y: 0, Width: 1200, Height: 800}

	positions, err := GridPositions(5, viewport, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 5 {
		t.Fatalf("expected 5 positions, got %d", len(positions))
	}

	// cols=3 rows=2, cell=400x400; index 3 starts the second row.
	want := Rect{X: 0, Y: 400, Width: 400, Height: 400}
	if positions[3] != want {
		t.Fatalf("positions[3] = %+v, want %+v", positions[3], want)
	}
	if positions[2].X != 800 || positions[2].Y != 0 {
		t.Fatalf("positions[2] = %+v, want column 2 of row 0", positions[2])
	}
}

func TestGridPositions_SingleWindowUsesHalfWidth(t *testing.T) {
	positions, err := GridPositions(1, Rect{Width: 1000, Height: 600}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if positions[0].Width != 500 || positions[0].Height != 600 {
		t.Fatalf("expected 500x600, got %dx%d", positions[0].Width, positions[0].Height)
	}
}

func TestHorizontalPositions_FloorsWidth(t *testing.T) {
	viewport := Rect{X: 280, Y: 52, Width: 1000, Height: 700}

	positions, err := HorizontalPositions(3, viewport, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range positions {
		if p.Width != 333 {
			t.Fatalf("positions[%d].Width = %d, want 333", i, p.Width)
		}
		if p.Height != 700 || p.Y != 52 {
			t.Fatalf("positions[%d] = %+v, want full height at y=52", i, p)
		}
		if p.X != 280+i*333 {
			t.Fatalf("positions[%d].X = %d, want %d", i, p.X, 280+i*333)
		}
	}
}

func TestVerticalPositions_FullWidth(t *testing.T) {
	positions, err := VerticalPositions(4, Rect{Width: 800, Height: 600}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range positions {
		if p.Width != 800 || p.Height != 150 || p.Y != i*150 || p.X != 0 {
			t.Fatalf("positions[%d] = %+v", i, p)
		}
	}
}

func TestGridPositions_WithGap(t *testing.T) {
	// With width=210, gap=10, cols=2: total gaps = 30, cell=(210-30)/2=90
	// x0 = 10, x1 = 10 + 1*(90+10) = 110
	positions, err := GridPositions(2, Rect{Width: 210, Height: 100}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if positions[0].X != 10 || positions[1].X != 110 {
		t.Fatalf("unexpected x positions: %d, %d", positions[0].X, positions[1].X)
	}
	if positions[0].Width != 90 || positions[0].Height != 80 {
		t.Fatalf("unexpected size: %dx%d", positions[0].Width, positions[0].Height)
	}
}

func TestGridPositions_ErrorsWhenInsufficientSpace(t *testing.T) {
	_, err := GridPositions(2, Rect{Width: 20, Height: 10}, 20)
	if err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestCascadePositions(t *testing.T) {
	positions := CascadePositions(3, DefaultCascade())
	if len(positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(positions))
	}
	want := Rect{X: 110, Y: 140, Width: 800, Height: 500}
	if positions[2] != want {
		t.Fatalf("positions[2] = %+v, want %+v", positions[2], want)
	}
	if CascadePositions(0, DefaultCascade()) != nil {
		t.Fatalf("expected nil for zero windows")
	}
}

func TestPositions_UnknownMode(t *testing.T) {
	if _, err := Positions(Mode("spiral"), 2, Rect{Width: 100, Height: 100}, 0, DefaultCascade()); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"cascade", "horizontal", "vertical", "grid"} {
		if _, err := ParseMode(name); err != nil {
			t.Errorf("ParseMode(%q) error: %v", name, err)
		}
	}
	if _, err := ParseMode("master-stack"); err == nil {
		t.Errorf("expected error for master-stack")
	}
}

func TestApplyRegion_CustomClampsToMinimumSize(t *testing.T) {
	viewport := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	region := Region{
		Type:          RegionCustom,
		XPercent:      0,
		YPercent:      0,
		WidthPercent:  1,
		HeightPercent: 1,
	}

	adjusted := ApplyRegion(viewport, region)
	if adjusted.Width != 1 || adjusted.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.Width, adjusted.Height)
	}
}

func TestApplyRegion_RightHalf(t *testing.T) {
	adjusted := ApplyRegion(Rect{X: 100, Y: 0, Width: 1000, Height: 500}, Region{Type: RegionRightHalf})
	want := Rect{X: 600, Y: 0, Width: 500, Height: 500}
	if adjusted != want {
		t.Fatalf("ApplyRegion = %+v, want %+v", adjusted, want)
	}
}

func TestRegionValidate(t *testing.T) {
	if err := (Region{Type: "diagonal"}).Validate(); err == nil {
		t.Fatalf("expected error for unknown region type")
	}
	if err := (Region{Type: RegionCustom, WidthPercent: 120, HeightPercent: 50}).Validate(); err == nil {
		t.Fatalf("expected error for width_percent > 100")
	}
	if err := (Region{Type: RegionLeftHalf}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
