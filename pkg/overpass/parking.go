package overpass

import (
	"context"

	"github.com/rotisserie/eris"
)

// NearestParking finds the closest parking facility. Ways and relations
// are represented by their center coordinate.
func (c *Client) NearestParking(ctx context.Context, lat, lon float64) (Feature, float64, error) {
	resp, err := c.query(ctx, parkingQL(lat, lon, c.parkingRadiusM))
	if err != nil {
		return Feature{}, 0, eris.Wrap(err, "overpass: parking lookup")
	}

	var best Feature
	bestDist := -1.0
	for _, el := range resp.Elements {
		f, ok := featureCoord(el)
		if !ok {
			continue
		}
		if d := haversineM(lat, lon, f.Lat, f.Lon); bestDist < 0 || d < bestDist {
			best, bestDist = f, d
		}
	}

	if bestDist < 0 {
		return Feature{}, 0, eris.Wrapf(ErrNoFeatures,
			"overpass: parking within %dm of %.5f,%.5f", c.parkingRadiusM, lat, lon)
	}
	return best, bestDist, nil
}

func featureCoord(el element) (Feature, bool) {
	f := Feature{Name: el.tag("name")}
	switch {
	case el.Type == "node":
		f.Lat, f.Lon = el.Lat, el.Lon
	case el.Center != nil:
		f.Lat, f.Lon = el.Center.Lat, el.Center.Lon
	default:
		return Feature{}, false
	}
	return f, true
}
