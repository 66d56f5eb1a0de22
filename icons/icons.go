package icons

import (
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/javanhut/RavenPanel/render"
)

// Header icons are white strokes on a transparent 24x24 canvas so the
// renderer can tint them with the alpha channel as a mask.
var sources = map[string]string{
	render.IconClose: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<path d="M6 6 L18 18 M18 6 L6 18" stroke="#ffffff" stroke-width="2.5" stroke-linecap="round" fill="none"/>
</svg>`,
	render.IconSplit: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<rect x="4" y="4" width="16" height="16" rx="2" stroke="#ffffff" stroke-width="2" fill="none"/>
<path d="M4 12 L20 12" stroke="#ffffff" stroke-width="2" fill="none"/>
</svg>`,
	render.IconAdd: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<path d="M12 5 L12 19 M5 12 L19 12" stroke="#ffffff" stroke-width="2.5" stroke-linecap="round" fill="none"/>
</svg>`,
	render.IconProfiles: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<path d="M6 9 L12 15 L18 9" stroke="#ffffff" stroke-width="2.5" stroke-linecap="round" stroke-linejoin="round" fill="none"/>
</svg>`,
}

const windowIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
<rect x="2" y="2" width="60" height="60" rx="10" fill="#1a2233"/>
<rect x="2" y="2" width="60" height="12" rx="6" fill="#2f4f7f"/>
<path d="M12 26 L22 34 L12 42" stroke="#9ecbff" stroke-width="4" stroke-linecap="round" stroke-linejoin="round" fill="none"/>
<path d="M28 44 L48 44" stroke="#9ecbff" stroke-width="4" stroke-linecap="round"/>
</svg>`

// Names lists the header icons that can be rendered.
func Names() []string {
	return []string{render.IconClose, render.IconSplit, render.IconAdd, render.IconProfiles}
}

// Render rasterizes the named header icon at size x size pixels.
func Render(name string, size int) (*image.RGBA, error) {
	src, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown icon %q", name)
	}
	return renderSVG(src, size)
}

// WindowIcons renders the application icon at the sizes window managers
// ask for.
func WindowIcons() []image.Image {
	var out []image.Image
	for _, size := range []int{16, 32, 48, 64, 128, 256} {
		if img, err := renderSVG(windowIcon, size); err == nil {
			out = append(out, img)
		}
	}
	return out
}

func renderSVG(svg string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse icon: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return rgba, nil
}
