// Package overpass queries an Overpass API instance for road and parking
// features near a coordinate.
package overpass

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Swiss Overpass instance.
	DefaultBaseURL = "https://overpass.osm.ch/api/interpreter"

	// DefaultMotorwayRadiusM bounds the motorway search.
	DefaultMotorwayRadiusM = 20000

	// DefaultParkingRadiusM bounds the parking search.
	DefaultParkingRadiusM = 1000
)

// ErrNoFeatures is returned when a bounded query matches nothing.
var ErrNoFeatures = eris.New("overpass: no features within radius")

// Feature is one named map feature with a WGS84 coordinate.
type Feature struct {
	Name string
	Lat  float64
	Lon  float64
}

// FeatureSource answers nearest-feature queries around a coordinate.
// Implementations return the feature and the great-circle distance in
// meters, or ErrNoFeatures when nothing is in range.
type FeatureSource interface {
	NearestMotorwayJunction(ctx context.Context, lat, lon float64) (Feature, float64, error)
	NearestParking(ctx context.Context, lat, lon float64) (Feature, float64, error)
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL points the client at a different Overpass instance.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the requests-per-second limit applied before every
// query.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithMotorwayRadius overrides the motorway search radius in meters.
func WithMotorwayRadius(m int) Option {
	return func(c *Client) { c.motorwayRadiusM = m }
}

// WithParkingRadius overrides the parking search radius in meters.
func WithParkingRadius(m int) Option {
	return func(c *Client) { c.parkingRadiusM = m }
}

// Client talks to one Overpass instance. Each call is a single attempt;
// callers that want retries wrap the call themselves.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	limiter         *rate.Limiter
	motorwayRadiusM int
	parkingRadiusM  int
}

// NewClient creates an Overpass client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:         DefaultBaseURL,
		httpClient:      &http.Client{Timeout: 60 * time.Second},
		limiter:         rate.NewLimiter(1, 1), // public instances throttle hard
		motorwayRadiusM: DefaultMotorwayRadiusM,
		parkingRadiusM:  DefaultParkingRadiusM,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ FeatureSource = (*Client)(nil)
