// Package mapgen builds starting terrain for a new park: flat land, simplex
// noise hills or a greyscale height map, with water, beaches and trees on top.
package mapgen

import (
	"fmt"
)

type Algorithm uint8

const (
	Blank Algorithm = iota
	Simplex
	HeightmapImage
)

func (a Algorithm) String() string {
	switch a {
	case Blank:
		return "blank"
	case Simplex:
		return "simplex"
	case HeightmapImage:
		return "heightmap"
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range []Algorithm{Blank, Simplex, HeightmapImage} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown map generation algorithm %q", s)
}

// Land heights are in the game's coarse height units.
const (
	MinLandHeight = 2
	MaxLandHeight = 142
	MinMapSize    = 3
	MaxMapSize    = 256
)

// Surface textures usable as Floor.
const (
	Grass uint8 = iota
	Sand
	SandRed
	Dirt
	Ice
	Martian
	Checkerboard
	GrassClumps
	numSurfaces
)

// Edge textures usable as Wall.
const (
	EdgeRock uint8 = iota
	EdgeWoodRed
	EdgeWoodBlack
	EdgeIce
	numEdges
)

type Settings struct {
	// Base
	Algorithm  Algorithm
	MapSize    int // tiles per side
	Height     int
	WaterLevel int
	Floor      uint8
	Wall       uint8

	// Features
	Trees   bool
	Beaches bool

	// Simplex noise, also the output range of HeightmapImage
	SimplexLow      int
	SimplexHigh     int
	SimplexBaseFreq float64
	SimplexOctaves  int

	// Height map
	Smooth          bool // limit slopes after generation
	SmoothHeightmap bool // blur the source image
	SmoothStrength  int
	NormalizeHeight bool

	Seed int64
}

func DefaultSettings() Settings {
	return Settings{
		Algorithm:       Blank,
		MapSize:         150,
		Height:          12,
		WaterLevel:      6,
		Floor:           Grass,
		Wall:            EdgeRock,
		Trees:           true,
		Beaches:         true,
		SimplexLow:      6,
		SimplexHigh:     10,
		SimplexBaseFreq: 1.75,
		SimplexOctaves:  6,
		Smooth:          true,
		SmoothStrength:  1,
		NormalizeHeight: true,
	}
}

func (s *Settings) Validate() error {
	if s.Algorithm > HeightmapImage {
		return fmt.Errorf("unknown algorithm %d", s.Algorithm)
	}
	if s.MapSize < MinMapSize || s.MapSize > MaxMapSize {
		return fmt.Errorf("map size %d out of range %d..%d", s.MapSize, MinMapSize, MaxMapSize)
	}
	if s.Height < MinLandHeight || s.Height > MaxLandHeight {
		return fmt.Errorf("height %d out of range %d..%d", s.Height, MinLandHeight, MaxLandHeight)
	}
	if s.WaterLevel < 0 || s.WaterLevel > MaxLandHeight {
		return fmt.Errorf("water level %d out of range 0..%d", s.WaterLevel, MaxLandHeight)
	}
	if s.Floor >= numSurfaces {
		return fmt.Errorf("unknown floor texture %d", s.Floor)
	}
	if s.Wall >= numEdges {
		return fmt.Errorf("unknown wall texture %d", s.Wall)
	}
	if s.Algorithm != Blank {
		if s.SimplexLow < MinLandHeight || s.SimplexHigh > MaxLandHeight || s.SimplexLow >= s.SimplexHigh {
			return fmt.Errorf("height range %d..%d invalid", s.SimplexLow, s.SimplexHigh)
		}
	}
	if s.Algorithm == Simplex {
		if s.SimplexOctaves < 1 || s.SimplexOctaves > 10 {
			return fmt.Errorf("octaves %d out of range 1..10", s.SimplexOctaves)
		}
		if s.SimplexBaseFreq <= 0 {
			return fmt.Errorf("base frequency must be positive, got %v", s.SimplexBaseFreq)
		}
	}
	if s.Algorithm == HeightmapImage && s.SmoothHeightmap && (s.SmoothStrength < 1 || s.SmoothStrength > 20) {
		return fmt.Errorf("smooth strength %d out of range 1..20", s.SmoothStrength)
	}
	return nil
}
