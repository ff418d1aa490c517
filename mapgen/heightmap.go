package mapgen

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
)

// Heightmap is a greyscale image, 0 low and 255 high.
type Heightmap struct {
	Width, Height int
	Values        []uint8
}

func NewHeightmap(w, h int) *Heightmap {
	return &Heightmap{Width: w, Height: h, Values: make([]uint8, w*h)}
}

func (h *Heightmap) At(x, y int) uint8 {
	return h.Values[y*h.Width+x]
}

func (h *Heightmap) Set(x, y int, v uint8) {
	h.Values[y*h.Width+x] = v
}

func LoadHeightmapImage(r io.Reader) (*Heightmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode height map: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("height map is empty")
	}
	h := NewHeightmap(b.Dx(), b.Dy())
	for y := range b.Dy() {
		for x := range b.Dx() {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			h.Set(x, y, g.Y)
		}
	}
	return h, nil
}

// Resize samples the nearest source pixel for each tile of a size x size map.
func (h *Heightmap) Resize(size int) *Heightmap {
	out := NewHeightmap(size, size)
	for y := range size {
		for x := range size {
			out.Set(x, y, h.At(x*h.Width/size, y*h.Height/size))
		}
	}
	return out
}

// Blur applies passes of a 3x3 box filter.
func (h *Heightmap) Blur(passes int) {
	tmp := make([]uint8, len(h.Values))
	for range passes {
		for y := range h.Height {
			for x := range h.Width {
				sum, n := 0, 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || ny < 0 || nx >= h.Width || ny >= h.Height {
							continue
						}
						sum += int(h.At(nx, ny))
						n++
					}
				}
				tmp[y*h.Width+x] = uint8(sum / n)
			}
		}
		copy(h.Values, tmp)
	}
}

// Normalize stretches the values to cover 0..255.
func (h *Heightmap) Normalize() {
	lo, hi := uint8(255), uint8(0)
	for _, v := range h.Values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo >= hi {
		return
	}
	span := int(hi - lo)
	for i, v := range h.Values {
		h.Values[i] = uint8(int(v-lo) * 255 / span)
	}
}
