package main

import (
	"context"
	"net/http"
	"time"

	"github.com/standort-labs/standort-cli/internal/batch"
	"github.com/standort-labs/standort-cli/internal/region"
	"github.com/standort-labs/standort-cli/internal/resilience"
	"github.com/standort-labs/standort-cli/internal/rubric"
	"github.com/standort-labs/standort-cli/internal/stops"
	"github.com/standort-labs/standort-cli/internal/store"
	"github.com/standort-labs/standort-cli/pkg/overpass"
)

// initStore opens the configured run history backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return store.NewSQLite(cfg.Store.SQLitePath)
	}
}

// loadResolver loads the regional reference table from disk.
func loadResolver(ctx context.Context) (*region.Resolver, error) {
	return region.LoadFile(ctx, cfg.Geodata.RegionsPath)
}

// loadStops loads the transit stop registry from disk.
func loadStops(ctx context.Context) (*stops.Index, error) {
	return stops.LoadFile(ctx, cfg.Geodata.StopsPath)
}

// buildEngine builds the scoring engine, applying rubric overrides when
// configured.
func buildEngine() (*rubric.Engine, error) {
	tables, err := rubric.LoadTables(cfg.Rubric.OverridePath)
	if err != nil {
		return nil, err
	}
	return rubric.NewEngine(tables)
}

// buildFeatures builds the remote feature source, wrapped with retry when
// the config opts in.
func buildFeatures() overpass.FeatureSource {
	client := overpass.NewClient(
		overpass.WithBaseURL(cfg.Overpass.BaseURL),
		overpass.WithRateLimit(cfg.Overpass.RateLimitRPS),
		overpass.WithMotorwayRadius(cfg.Overpass.MotorwayRadiusM),
		overpass.WithParkingRadius(cfg.Overpass.ParkingRadiusM),
		overpass.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Overpass.TimeoutSecs) * time.Second,
		}),
	)
	if cfg.Overpass.RetryAttempts <= 1 {
		return client
	}
	policy := resilience.Backoff(cfg.Overpass.RetryAttempts)
	policy.OnRetry = resilience.RetryLogger("overpass", "lookup")
	return &retryingFeatures{inner: client, policy: policy}
}

// retryingFeatures retries transient lookup failures under an opt-in
// policy. ErrNoFeatures is a definitive answer and is never retried.
type retryingFeatures struct {
	inner  overpass.FeatureSource
	policy resilience.Policy
}

type featureHit struct {
	feature overpass.Feature
	dist    float64
}

func (r *retryingFeatures) NearestMotorwayJunction(ctx context.Context, lat, lon float64) (overpass.Feature, float64, error) {
	hit, err := resilience.Do(ctx, r.policy, func(ctx context.Context) (featureHit, error) {
		f, d, err := r.inner.NearestMotorwayJunction(ctx, lat, lon)
		return featureHit{feature: f, dist: d}, err
	})
	return hit.feature, hit.dist, err
}

func (r *retryingFeatures) NearestParking(ctx context.Context, lat, lon float64) (overpass.Feature, float64, error) {
	hit, err := resilience.Do(ctx, r.policy, func(ctx context.Context) (featureHit, error) {
		f, d, err := r.inner.NearestParking(ctx, lat, lon)
		return featureHit{feature: f, dist: d}, err
	})
	return hit.feature, hit.dist, err
}

// buildRunner assembles the full batch pipeline from config.
func buildRunner(ctx context.Context, concurrency int) (*batch.Runner, error) {
	resolver, err := loadResolver(ctx)
	if err != nil {
		return nil, err
	}
	index, err := loadStops(ctx)
	if err != nil {
		return nil, err
	}
	engine, err := buildEngine()
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = cfg.Batch.Concurrency
	}
	return batch.NewRunner(batch.Config{
		Resolver:    resolver,
		Stops:       index,
		Features:    buildFeatures(),
		Engine:      engine,
		Concurrency: concurrency,
	})
}
