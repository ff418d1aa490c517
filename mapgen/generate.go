package mapgen

import (
	"errors"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"
)

type Tile struct {
	Height      int
	WaterHeight int // 0 for dry land
	Surface     uint8
	Edge        uint8
	Tree        bool
	Footpath    bool
}

func (t Tile) Wet() bool {
	return t.WaterHeight > t.Height
}

type Map struct {
	Size  int
	Tiles []Tile
}

func NewMap(size int) *Map {
	return &Map{Size: size, Tiles: make([]Tile, size*size)}
}

func (m *Map) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Size && y < m.Size
}

// At returns the tile at x, y. It panics outside the map.
func (m *Map) At(x, y int) *Tile {
	return &m.Tiles[y*m.Size+x]
}

var ErrNoHeightmap = errors.New("heightmap algorithm needs a loaded height map")

const (
	persistence = 0.65
	treeDensity = 0.5
)

// Generate builds a map from s. heightmap is only used by HeightmapImage.
func Generate(s Settings, heightmap *Heightmap) (*Map, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	m := NewMap(s.MapSize)
	for i := range m.Tiles {
		m.Tiles[i] = Tile{Height: s.Height, Surface: s.Floor, Edge: s.Wall}
	}

	switch s.Algorithm {
	case Simplex:
		simplex(m, s)
	case HeightmapImage:
		if heightmap == nil {
			return nil, ErrNoHeightmap
		}
		fromHeightmap(m, s, heightmap)
	}

	if s.Smooth {
		smooth(m)
	}
	flood(m, s.WaterLevel)
	if s.Beaches {
		beaches(m, s.WaterLevel)
	}
	if s.Trees {
		trees(m, s)
	}
	return m, nil
}

func fractal(n opensimplex.Noise, x, y, freq float64, octaves int) float64 {
	total, amp, maxAmp := 0.0, 1.0, 0.0
	for range octaves {
		total += n.Eval2(x*freq, y*freq) * amp
		maxAmp += amp
		amp *= persistence
		freq *= 2
	}
	return total / maxAmp
}

func simplex(m *Map, s Settings) {
	n := opensimplex.NewNormalized(s.Seed)
	freq := s.SimplexBaseFreq / float64(m.Size)
	span := float64(s.SimplexHigh - s.SimplexLow)
	for y := range m.Size {
		for x := range m.Size {
			v := fractal(n, float64(x), float64(y), freq, s.SimplexOctaves)
			m.At(x, y).Height = s.SimplexLow + int(v*span+0.5)
		}
	}
}

func fromHeightmap(m *Map, s Settings, h *Heightmap) {
	src := h.Resize(m.Size)
	if s.SmoothHeightmap {
		src.Blur(s.SmoothStrength)
	}
	if s.NormalizeHeight {
		src.Normalize()
	}
	span := float64(s.SimplexHigh - s.SimplexLow)
	for y := range m.Size {
		for x := range m.Size {
			v := float64(src.At(x, y)) / 255
			m.At(x, y).Height = s.SimplexLow + int(v*span+0.5)
		}
	}
}

var neighbours = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// smooth raises tiles until no two neighbours differ by more than two units.
func smooth(m *Map) {
	for changed := true; changed; {
		changed = false
		for y := range m.Size {
			for x := range m.Size {
				h := m.At(x, y).Height
				for _, d := range neighbours {
					nx, ny := x+d[0], y+d[1]
					if !m.In(nx, ny) {
						continue
					}
					if n := m.At(nx, ny); h-n.Height > 2 {
						n.Height = h - 2
						changed = true
					}
				}
			}
		}
	}
}

func flood(m *Map, level int) {
	for i := range m.Tiles {
		if m.Tiles[i].Height < level {
			m.Tiles[i].WaterHeight = level
		}
	}
}

func beaches(m *Map, level int) {
	for y := range m.Size {
		for x := range m.Size {
			t := m.At(x, y)
			if t.Wet() || t.Height > level+2 {
				continue
			}
			for _, d := range neighbours {
				nx, ny := x+d[0], y+d[1]
				if m.In(nx, ny) && m.At(nx, ny).Wet() {
					t.Surface = Sand
					break
				}
			}
		}
	}
}

func trees(m *Map, s Settings) {
	n := opensimplex.NewNormalized(s.Seed + 1)
	rng := rand.New(rand.NewPCG(uint64(s.Seed), 0x7472656573))
	freq := 8.0 / float64(m.Size)
	for y := range m.Size {
		for x := range m.Size {
			t := m.At(x, y)
			if t.Wet() || t.Surface == Sand || t.Footpath {
				continue
			}
			if fractal(n, float64(x), float64(y), freq, 2) > 0.55 && rng.Float64() < treeDensity {
				t.Tree = true
			}
		}
	}
}
