// Package stops holds the in-memory transit-stop registry and its
// nearest-neighbor lookup.
package stops

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// ErrNoStops is returned when a lookup runs against an empty registry.
var ErrNoStops = eris.New("stops: registry is empty")

// Stop is one named transit stop with planar LV95 coordinates.
type Stop struct {
	Name string
	E    float64
	N    float64
}

// Index is the read-only stop registry, loaded once at startup. The
// registry is small (a few thousand national operating points), so lookups
// are a linear scan over planar coordinates.
type Index struct {
	stops  []Stop
	coords []geom.Coord
}

// NewIndex builds an Index over the given stops.
func NewIndex(stops []Stop) *Index {
	coords := make([]geom.Coord, len(stops))
	for i, s := range stops {
		coords[i] = geom.Coord{s.E, s.N}
	}
	return &Index{stops: stops, coords: coords}
}

// Len reports the number of indexed stops.
func (ix *Index) Len() int { return len(ix.stops) }

// Nearest returns the closest stop to the WGS84 query coordinate and the
// straight-line distance in meters. The query point is projected into LV95
// so the planar distance is valid at city scale.
func (ix *Index) Nearest(lat, lon float64) (Stop, float64, error) {
	if len(ix.stops) == 0 {
		return Stop{}, 0, ix.emptyErr()
	}

	e, n := WGS84ToLV95(lat, lon)
	query := geom.Coord{e, n}

	best := 0
	bestDist := xy.Distance(query, ix.coords[0])
	for i := 1; i < len(ix.coords); i++ {
		if d := xy.Distance(query, ix.coords[i]); d < bestDist {
			best, bestDist = i, d
		}
	}

	return ix.stops[best], bestDist, nil
}

func (ix *Index) emptyErr() error {
	return eris.Wrap(ErrNoStops, "nearest lookup")
}
