package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// element is one Overpass response element. Nodes carry lat/lon directly;
// ways carry node IDs plus per-node geometry when requested, and "out
// center" responses carry a center coordinate.
type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Nodes    []int64           `json:"nodes"`
	Geometry []coordinate      `json:"geometry"`
	Center   *coordinate       `json:"center"`
	Tags     map[string]string `json:"tags"`
}

type coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type response struct {
	Elements []element `json:"elements"`
}

func (e element) tag(key string) string {
	if e.Tags == nil {
		return ""
	}
	return e.Tags[key]
}

// query posts one Overpass QL statement and decodes the JSON response.
func (c *Client) query(ctx context.Context, ql string) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "overpass: rate limit")
	}

	form := url.Values{"data": {ql}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "overpass: build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("overpass: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: read body")
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "overpass: parse response")
	}
	return &out, nil
}

func motorwayQL(lat, lon float64, radiusM int) string {
	return fmt.Sprintf(`[out:json][timeout:25];
(
  way["highway"="motorway"](around:%d,%.6f,%.6f);
  way["highway"="motorway_link"](around:%d,%.6f,%.6f);
);
out body geom;`, radiusM, lat, lon, radiusM, lat, lon)
}

func parkingQL(lat, lon float64, radiusM int) string {
	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"="parking"](around:%d,%.6f,%.6f);
  way["amenity"="parking"](around:%d,%.6f,%.6f);
  relation["amenity"="parking"](around:%d,%.6f,%.6f);
);
out center;`, radiusM, lat, lon, radiusM, lat, lon, radiusM, lat, lon)
}
