package render

import "github.com/javanhut/RavenPanel/grid"

// ColorResolver maps grid colors to concrete colors.
type ColorResolver interface {
	Resolve(c grid.Color, fg bool) Color
}

// Palette resolves default colors against a theme and indexed colors
// against the xterm 256 color table.
type Palette struct {
	Theme Theme
}

// Resolve converts a grid.Color to RGBA
func (p Palette) Resolve(c grid.Color, fg bool) Color {
	switch c.Type {
	case grid.ColorDefault:
		if !fg {
			return p.Theme.Background
		}
		return p.Theme.Foreground
	case grid.ColorIndexed:
		return indexedColor(c.Index)
	case grid.ColorRGB:
		return Color{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, 1.0}
	}
	return p.Theme.Foreground
}

var standardColors = [16]Color{
	{0.043, 0.059, 0.078, 1.0}, // 0: Black
	{0.820, 0.412, 0.412, 1.0}, // 1: Red
	{0.498, 0.737, 0.549, 1.0}, // 2: Green
	{0.843, 0.729, 0.490, 1.0}, // 3: Yellow
	{0.533, 0.643, 0.831, 1.0}, // 4: Blue
	{0.773, 0.525, 0.753, 1.0}, // 5: Magenta
	{0.498, 0.773, 0.784, 1.0}, // 6: Cyan
	{0.831, 0.847, 0.871, 1.0}, // 7: White
	{0.294, 0.322, 0.388, 1.0}, // 8: Bright Black
	{0.878, 0.478, 0.478, 1.0}, // 9: Bright Red
	{0.604, 0.843, 0.659, 1.0}, // 10: Bright Green
	{0.906, 0.788, 0.545, 1.0}, // 11: Bright Yellow
	{0.647, 0.749, 0.941, 1.0}, // 12: Bright Blue
	{0.847, 0.627, 0.831, 1.0}, // 13: Bright Magenta
	{0.604, 0.843, 0.863, 1.0}, // 14: Bright Cyan
	{0.945, 0.953, 0.961, 1.0}, // 15: Bright White
}

// indexedColor returns the RGB color for an indexed color (0-255)
func indexedColor(index uint8) Color {
	if index < 16 {
		return standardColors[index]
	}

	// 6x6x6 cube
	if index < 232 {
		idx := index - 16
		return Color{
			cubeLevel(idx / 36),
			cubeLevel((idx / 6) % 6),
			cubeLevel(idx % 6),
			1.0,
		}
	}

	gray := float32(8+int(index-232)*10) / 255
	return Color{gray, gray, gray, 1.0}
}

func cubeLevel(v uint8) float32 {
	if v == 0 {
		return 0
	}
	return float32(55+int(v)*40) / 255
}
