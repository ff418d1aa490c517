package mapgen

import (
	"image"
	"image/color"

	clr "github.com/lucasb-eyer/go-colorful"
)

var (
	lowland   = clr.Color{R: 0.24, G: 0.55, B: 0.20}
	highland  = clr.Color{R: 0.55, G: 0.45, B: 0.30}
	peak      = clr.Color{R: 0.95, G: 0.95, B: 0.95}
	shallow   = clr.Color{R: 0.35, G: 0.65, B: 0.90}
	deep      = clr.Color{R: 0.05, G: 0.20, B: 0.55}
	sand      = clr.Color{R: 0.90, G: 0.82, B: 0.55}
	footpath  = clr.Color{R: 0.60, G: 0.60, B: 0.62}
	treeShade = 0.12
)

func darken(src clr.Color, p float64) clr.Color {
	h, c, l := src.Hcl()
	return clr.Hcl(h, c, l-p).Clamped()
}

func landColor(height, lo, hi int) clr.Color {
	if hi <= lo {
		return lowland
	}
	t := float64(height-lo) / float64(hi-lo)
	if t < 0.7 {
		return lowland.BlendLab(highland, t/0.7).Clamped()
	}
	return highland.BlendLab(peak, (t-0.7)/0.3).Clamped()
}

func (m *Map) heightRange() (int, int) {
	lo, hi := MaxLandHeight, 0
	for _, t := range m.Tiles {
		lo = min(lo, t.Height)
		hi = max(hi, t.Height)
	}
	return lo, hi
}

func tileColor(t Tile, lo, hi int) color.Color {
	switch {
	case t.Wet():
		depth := float64(t.WaterHeight-t.Height) / 8
		return shallow.BlendLab(deep, min(depth, 1)).Clamped()
	case t.Footpath:
		return footpath
	}
	c := landColor(t.Height, lo, hi)
	if t.Surface == Sand {
		c = sand
	}
	if t.Tree {
		c = darken(c, treeShade)
	}
	return c
}

// Preview draws the map top-down, scale pixels per tile.
func Preview(m *Map, scale int) *image.RGBA {
	scale = max(scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, m.Size*scale, m.Size*scale))
	lo, hi := m.heightRange()
	for y := range m.Size {
		for x := range m.Size {
			c := tileColor(*m.At(x, y), lo, hi)
			for py := range scale {
				for px := range scale {
					img.Set(x*scale+px, y*scale+py, c)
				}
			}
		}
	}
	return img
}
