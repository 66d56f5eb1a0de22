package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Metrics are the pixel dimensions of one grid cell.
type Metrics struct {
	CellWidth  float32
	CellHeight float32
	Ascent     float32
}

// Valid reports whether both cell dimensions are positive.
func (m Metrics) Valid() bool {
	return m.CellWidth > 0 && m.CellHeight > 0
}

// GridSize returns how many whole cells fit in a w x h pixel area, at least
// one in each direction.
func (m Metrics) GridSize(w, h float32) (cols, lines int) {
	if !m.Valid() {
		return 1, 1
	}
	return max(int(w/m.CellWidth), 1), max(int(h/m.CellHeight), 1)
}

// TextMetrics are the metrics of a text screen, where a cell is one unit.
var TextMetrics = Metrics{CellWidth: 1, CellHeight: 1, Ascent: 1}

// LoadMetrics measures a monospace font at the given point size. The cell
// width is the advance of 'M'.
func LoadMetrics(fontData []byte, size float64) (Metrics, error) {
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	fm := face.Metrics()
	advance, _ := face.GlyphAdvance('M')
	return Metrics{
		CellWidth:  float32(advance.Ceil()),
		CellHeight: float32((fm.Ascent + fm.Descent).Ceil()),
		Ascent:     float32(fm.Ascent.Ceil()),
	}, nil
}
