package fonts

import (
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

// FontInfo describes an available font
type FontInfo struct {
	Name        string
	DisplayName string
	Data        []byte
	Bold        []byte
}

// AvailableFonts returns all embedded fonts
func AvailableFonts() []FontInfo {
	return []FontInfo{
		{Name: "gomono", DisplayName: "Go Mono", Data: gomono.TTF, Bold: gomonobold.TTF},
	}
}

// Get returns the font by name (case insensitive)
func Get(name string) (FontInfo, bool) {
	for _, f := range AvailableFonts() {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return FontInfo{}, false
}

// Resolve returns the named font, or the default when the name is unknown.
func Resolve(name string) FontInfo {
	if f, ok := Get(name); ok {
		return f
	}
	return Default()
}

// Default returns the default font (Go Mono)
func Default() FontInfo {
	return AvailableFonts()[0]
}
