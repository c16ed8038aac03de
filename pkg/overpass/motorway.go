package overpass

import (
	"context"

	"github.com/rotisserie/eris"
)

// NearestMotorwayJunction finds the closest motorway entry ramp. Entry
// points are the endpoints of motorway_link ways that do not touch a
// motorway way itself: those are where ordinary roads feed the ramp, which
// is what a commuter actually drives to.
func (c *Client) NearestMotorwayJunction(ctx context.Context, lat, lon float64) (Feature, float64, error) {
	resp, err := c.query(ctx, motorwayQL(lat, lon, c.motorwayRadiusM))
	if err != nil {
		return Feature{}, 0, eris.Wrap(err, "overpass: motorway lookup")
	}

	entries := rampEntries(resp.Elements)
	if len(entries) == 0 {
		return Feature{}, 0, eris.Wrapf(ErrNoFeatures,
			"overpass: motorway within %dm of %.5f,%.5f", c.motorwayRadiusM, lat, lon)
	}

	best := entries[0]
	bestDist := haversineM(lat, lon, best.Lat, best.Lon)
	for _, e := range entries[1:] {
		if d := haversineM(lat, lon, e.Lat, e.Lon); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, bestDist, nil
}

// rampEntries extracts ramp entry points from a combined motorway +
// motorway_link response. A link endpoint shared with a motorway way is
// the merge onto the carriageway, not an entry, so those are excluded.
func rampEntries(elements []element) []Feature {
	motorwayNodes := make(map[int64]struct{})
	for _, el := range elements {
		if el.Type == "way" && el.tag("highway") == "motorway" {
			for _, id := range el.Nodes {
				motorwayNodes[id] = struct{}{}
			}
		}
	}

	var entries []Feature
	for _, el := range elements {
		if el.Type != "way" || el.tag("highway") != "motorway_link" {
			continue
		}
		if len(el.Nodes) == 0 || len(el.Geometry) != len(el.Nodes) {
			continue
		}
		name := el.tag("name")
		if name == "" {
			name = el.tag("ref")
		}
		for _, i := range []int{0, len(el.Nodes) - 1} {
			if _, onMotorway := motorwayNodes[el.Nodes[i]]; onMotorway {
				continue
			}
			entries = append(entries, Feature{
				Name: name,
				Lat:  el.Geometry[i].Lat,
				Lon:  el.Geometry[i].Lon,
			})
		}
	}
	return entries
}
