package mapgen

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// Bounds is the latitude/longitude box mapped onto the park.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// BoundsAround returns a square box of size degrees centred on lat, lon.
func BoundsAround(lat, lon, size float64) Bounds {
	return Bounds{
		MinLat: lat - size/2,
		MaxLat: lat + size/2,
		MinLon: lon - size/2,
		MaxLon: lon + size/2,
	}
}

func (b Bounds) Contains(lat, lon float64) bool {
	return b.MinLat < lat && lat < b.MaxLat && b.MinLon < lon && lon < b.MaxLon
}

var footpathTags = []string{"footway", "path", "pedestrian", "steps", "track"}

type ImportStats struct {
	Nodes     int
	Trees     int
	WaterWays int
	Paths     int
}

type importer struct {
	m      *Map
	bounds Bounds
	nodes  map[osm.NodeID]*osm.Node
	stats  ImportStats
}

func newImporter(m *Map, b Bounds) *importer {
	return &importer{m: m, bounds: b, nodes: make(map[osm.NodeID]*osm.Node)}
}

// tileXY maps a coordinate to a tile; north is y = 0.
func (im *importer) tileXY(lat, lon float64) (int, int) {
	size := float64(im.m.Size)
	x := int((lon - im.bounds.MinLon) / (im.bounds.MaxLon - im.bounds.MinLon) * size)
	y := int((im.bounds.MaxLat - lat) / (im.bounds.MaxLat - im.bounds.MinLat) * size)
	return min(max(x, 0), im.m.Size-1), min(max(y, 0), im.m.Size-1)
}

func (im *importer) node(n *osm.Node) {
	im.nodes[n.ID] = n
	im.stats.Nodes++
	if !im.bounds.Contains(n.Lat, n.Lon) {
		return
	}
	if n.Tags.Find("natural") == "tree" {
		t := im.m.At(im.tileXY(n.Lat, n.Lon))
		if !t.Wet() && !t.Footpath {
			t.Tree = true
			im.stats.Trees++
		}
	}
}

func (im *importer) way(w *osm.Way) {
	water := w.Tags.Find("natural") == "water" || w.Tags.Find("waterway") != ""
	path := slices.Contains(footpathTags, w.Tags.Find("highway"))
	if !water && !path {
		return
	}
	prevValid := false
	var prevX, prevY int
	for _, wn := range w.Nodes {
		n := im.nodes[wn.ID]
		if n == nil || !im.bounds.Contains(n.Lat, n.Lon) {
			prevValid = false
			continue
		}
		curX, curY := im.tileXY(n.Lat, n.Lon)
		if !prevValid {
			prevX, prevY = curX, curY
		}
		line(prevX, prevY, curX, curY, func(x, y int) {
			t := im.m.At(x, y)
			if water {
				t.WaterHeight = max(t.WaterHeight, t.Height+1)
				t.Tree = false
				t.Footpath = false
			} else if !t.Wet() {
				t.Footpath = true
				t.Tree = false
			}
		})
		prevValid = true
		prevX, prevY = curX, curY
	}
	if water {
		im.stats.WaterWays++
	} else {
		im.stats.Paths++
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// line visits every tile from x1, y1 to x2, y2 along the major axis.
func line(x1, y1, x2, y2 int, visit func(x, y int)) {
	d := 0
	xm := 1.0
	ym := 1.0
	if x1 != x2 || y1 != y2 {
		if abs(x2-x1) >= abs(y2-y1) {
			d = abs(x2 - x1)
			if x1 > x2 {
				xm = -1.0
			}
			ym = float64(y2-y1) / float64(abs(x2-x1))
		} else {
			d = abs(y2 - y1)
			if y1 > y2 {
				ym = -1.0
			}
			xm = float64(x2-x1) / float64(abs(y2-y1))
		}
	}
	for i := 0; i <= d; i++ {
		visit(x1+int(float64(i)*xm), y1+int(float64(i)*ym))
	}
}

// ImportOSM overlays trees, water and footpaths from an OpenStreetMap PBF
// extract onto m. Nodes must precede the ways that use them, as in any
// sorted extract.
func ImportOSM(ctx context.Context, m *Map, r io.Reader, b Bounds) (ImportStats, error) {
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return ImportStats{}, fmt.Errorf("empty bounds %+v", b)
	}
	im := newImporter(m, b)

	scanner := osmpbf.New(ctx, r, 3)
	scanner.SkipRelations = true
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			im.node(o)
		case *osm.Way:
			im.way(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return im.stats, fmt.Errorf("read osm: %w", err)
	}
	return im.stats, nil
}
