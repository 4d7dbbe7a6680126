package config

// DefaultBuiltinLayout is the layout used when default_layout is unset.
const DefaultBuiltinLayout = "grid"

// BuiltinLayouts returns the built-in layout library.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional custom layouts in their config file.
func BuiltinLayouts() map[string]Layout {
	full := TileRegion{Type: RegionFull}
	return map[string]Layout{
		"grid":       {Mode: LayoutModeGrid, TileRegion: full},
		"cascade":    {Mode: LayoutModeCascade, TileRegion: full},
		"columns":    {Mode: LayoutModeHorizontal, TileRegion: full},
		"rows":       {Mode: LayoutModeVertical, TileRegion: full},
		"half-left":  {Mode: LayoutModeGrid, TileRegion: TileRegion{Type: RegionLeftHalf}},
		"half-right": {Mode: LayoutModeGrid, TileRegion: TileRegion{Type: RegionRightHalf}},
	}
}
