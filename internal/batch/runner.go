// Package batch orchestrates a scoring run over a portfolio document:
// region resolution, geodata lookups, and rubric scoring per company.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/standort-labs/standort-cli/internal/model"
	"github.com/standort-labs/standort-cli/internal/portfolio"
	"github.com/standort-labs/standort-cli/internal/region"
	"github.com/standort-labs/standort-cli/internal/rubric"
	"github.com/standort-labs/standort-cli/internal/stops"
	"github.com/standort-labs/standort-cli/pkg/overpass"
)

// Config wires the collaborators a Runner needs.
type Config struct {
	Resolver *region.Resolver
	Stops    *stops.Index
	Features overpass.FeatureSource
	Engine   *rubric.Engine

	// Concurrency bounds parallel company processing. Zero or one means
	// strictly sequential.
	Concurrency int
}

// Runner executes scoring runs.
type Runner struct {
	cfg Config
}

// Failure records one company that could not be scored. The batch
// continues past failures.
type Failure struct {
	Company  string
	Location string
	Err      error
}

// RunResult is the outcome of one batch run. Results preserve the input
// order of the portfolio's companies.
type RunResult struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Results  []*model.ScoredResult
	Failures []Failure
}

// Processed reports the number of successfully scored companies.
func (r *RunResult) Processed() int { return len(r.Results) }

// Failed reports the number of companies that could not be scored.
func (r *RunResult) Failed() int { return len(r.Failures) }

// NewRunner creates a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Resolver == nil || cfg.Engine == nil {
		return nil, eris.New("batch: resolver and engine are required")
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Runner{cfg: cfg}, nil
}

// Run scores every company in the portfolio. Regions are resolved once
// per run; per-company failures are recorded and do not abort the batch.
func (r *Runner) Run(ctx context.Context, p *portfolio.Portfolio) (*RunResult, error) {
	if err := p.Validate(); err != nil {
		return nil, eris.Wrap(err, "batch: run")
	}

	start := time.Now()
	run := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: start,
	}
	zap.L().Info("batch: run started",
		zap.String("run_id", run.RunID),
		zap.Int("companies", len(p.Companies)),
		zap.Int("concurrency", r.cfg.Concurrency),
	)

	locations, locErrs := r.resolveLocations(p)

	type slot struct {
		result  *model.ScoredResult
		failure *Failure
	}
	slots := make([]slot, len(p.Companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, comp := range p.Companies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.scoreOne(gctx, comp, locations, locErrs)
			if err != nil {
				zap.L().Warn("batch: company failed",
					zap.String("run_id", run.RunID),
					zap.String("company", comp.Name),
					zap.String("location", comp.Location),
					zap.Error(err),
				)
				slots[i].failure = &Failure{Company: comp.Name, Location: comp.Location, Err: err}
				return nil
			}
			slots[i].result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: run aborted")
	}

	for _, s := range slots {
		switch {
		case s.result != nil:
			run.Results = append(run.Results, s.result)
		case s.failure != nil:
			run.Failures = append(run.Failures, *s.failure)
		}
	}

	run.Duration = time.Since(start)
	zap.L().Info("batch: run finished",
		zap.String("run_id", run.RunID),
		zap.Int("processed", run.Processed()),
		zap.Int("failed", run.Failed()),
		zap.Duration("duration", run.Duration),
	)
	return run, nil
}

// resolveLocations resolves every portfolio location once. Failures are
// kept per location so each referencing company reports the same cause.
func (r *Runner) resolveLocations(p *portfolio.Portfolio) (map[string]model.Location, map[string]error) {
	locations := make(map[string]model.Location, len(p.Locations))
	errs := make(map[string]error)
	for _, in := range p.Locations {
		loc, err := r.cfg.Resolver.Resolve(in.Name, in.RegionCounts, in.TransitGrade)
		if err != nil {
			errs[in.Name] = err
			continue
		}
		locations[in.Name] = loc
	}
	return locations, errs
}

func (r *Runner) scoreOne(
	ctx context.Context,
	in portfolio.CompanyInput,
	locations map[string]model.Location,
	locErrs map[string]error,
) (*model.ScoredResult, error) {
	loc, ok := locations[in.Location]
	if !ok {
		if err := locErrs[in.Location]; err != nil {
			return nil, eris.Wrapf(err, "batch: company %s", in.Name)
		}
		return nil, eris.Errorf("batch: company %s references unresolved location %s", in.Name, in.Location)
	}

	geo, err := r.lookupGeo(ctx, in)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: company %s", in.Name)
	}

	return r.cfg.Engine.Score(loc, in.Company(), geo)
}

// lookupGeo gathers the three distances, preferring manual overrides from
// the portfolio document over remote lookups.
func (r *Runner) lookupGeo(ctx context.Context, in portfolio.CompanyInput) (model.GeoDistances, error) {
	var geo model.GeoDistances

	if ov := in.Overrides.StopDistanceM; ov != nil {
		geo.StopDistanceM = *ov
	} else {
		if r.cfg.Stops == nil {
			return geo, eris.New("no stop index configured and no manual stop distance")
		}
		stop, dist, err := r.cfg.Stops.Nearest(in.Latitude, in.Longitude)
		if err != nil {
			return geo, eris.Wrap(err, "stop lookup")
		}
		geo.StopName, geo.StopDistanceM = stop.Name, dist
	}

	if ov := in.Overrides.MotorwayDistanceM; ov != nil {
		geo.MotorwayDistanceM = *ov
	} else {
		if r.cfg.Features == nil {
			return geo, eris.New("no feature source configured and no manual motorway distance")
		}
		f, dist, err := r.cfg.Features.NearestMotorwayJunction(ctx, in.Latitude, in.Longitude)
		if err != nil {
			return geo, eris.Wrap(err, "motorway lookup")
		}
		geo.MotorwayName, geo.MotorwayDistanceM = f.Name, dist
	}

	if ov := in.Overrides.ParkingDistanceM; ov != nil {
		geo.ParkingDistanceM = *ov
	} else {
		if r.cfg.Features == nil {
			return geo, eris.New("no feature source configured and no manual parking distance")
		}
		f, dist, err := r.cfg.Features.NearestParking(ctx, in.Latitude, in.Longitude)
		if err != nil {
			return geo, eris.Wrap(err, "parking lookup")
		}
		geo.ParkingName, geo.ParkingDistanceM = f.Name, dist
	}

	return geo, nil
}
