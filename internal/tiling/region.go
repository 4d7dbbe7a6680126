package tiling

import "fmt"

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

// Region restricts an arrangement to part of the viewport.
type Region struct {
	Type          RegionType
	XPercent      int // 0-100
	YPercent      int // 0-100
	WidthPercent  int // 0-100
	HeightPercent int // 0-100
}

// Validate reports an unknown region type or out-of-range percentages.
func (r Region) Validate() error {
	switch r.Type {
	case "", RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		return nil
	case RegionCustom:
		for name, v := range map[string]int{
			"x_percent":      r.XPercent,
			"y_percent":      r.YPercent,
			"width_percent":  r.WidthPercent,
			"height_percent": r.HeightPercent,
		} {
			if v < 0 || v > 100 {
				return fmt.Errorf("%s must be between 0 and 100", name)
			}
		}
		if r.WidthPercent == 0 || r.HeightPercent == 0 {
			return fmt.Errorf("custom region needs width_percent and height_percent")
		}
		return nil
	default:
		return fmt.Errorf("unknown region type %q", r.Type)
	}
}

// ApplyRegion applies the tile region to a viewport, returning adjusted bounds
func ApplyRegion(viewport Rect, region Region) Rect {
	adjusted := viewport

	switch region.Type {
	case RegionFull, "":
		// No change

	case RegionLeftHalf:
		adjusted.Width = viewport.Width / 2

	case RegionRightHalf:
		adjusted.X = viewport.X + viewport.Width/2
		adjusted.Width = viewport.Width / 2

	case RegionTopHalf:
		adjusted.Height = viewport.Height / 2

	case RegionBottomHalf:
		adjusted.Y = viewport.Y + viewport.Height/2
		adjusted.Height = viewport.Height / 2

	case RegionCustom:
		adjusted.X = viewport.X + (viewport.Width * region.XPercent / 100)
		adjusted.Y = viewport.Y + (viewport.Height * region.YPercent / 100)
		adjusted.Width = viewport.Width * region.WidthPercent / 100
		adjusted.Height = viewport.Height * region.HeightPercent / 100
	}

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}

	return adjusted
}
