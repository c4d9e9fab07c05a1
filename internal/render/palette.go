package render

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColors is the 11-step diverging palette, coldest first.
var DefaultColors = []string{
	"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8", "#ffffbf",
	"#fee090", "#fdae61", "#f46d43", "#d73027", "#a50026",
}

const (
	darkText  = "#000000"
	lightText = "#ffffff"
)

// Palette is an ordered, non-empty list of colours indexed by bucket.
type Palette struct {
	colors []colorful.Color
}

// ParsePalette validates hex colour strings.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return Palette{}, errors.New("palette must contain at least one colour")
	}
	colors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("palette colour %d %q: %w", i, h, err)
		}
		colors[i] = c
	}
	return Palette{colors: colors}, nil
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	p, err := ParsePalette(DefaultColors)
	if err != nil {
		panic(err) // DefaultColors is a constant table
	}
	return p
}

// Len returns the number of colours.
func (p Palette) Len() int {
	return len(p.colors)
}

// Hex returns the colour for bucket i, clamped to the palette bounds.
func (p Palette) Hex(i int) string {
	return p.at(i).Hex()
}

// TextColor returns black or white, whichever reads better on bucket i.
func (p Palette) TextColor(i int) string {
	_, _, l := p.at(i).Hcl()
	if l > 0.5 {
		return darkText
	}
	return lightText
}

func (p Palette) at(i int) colorful.Color {
	if len(p.colors) == 0 {
		return colorful.Color{}
	}
	return p.colors[min(max(i, 0), len(p.colors)-1)]
}
