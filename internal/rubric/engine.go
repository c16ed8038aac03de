package rubric

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/standort-labs/standort-cli/internal/model"
)

// Engine applies the rubric to a resolved location and a company. Scoring
// is pure and stateless: identical inputs yield identical results.
type Engine struct {
	tables Tables
}

// NewEngine creates an Engine after validating the tables.
func NewEngine(tables Tables) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Engine{tables: tables}, nil
}

// Score maps the five location-side and five company-side metrics through
// their bucket tables and aggregates the three averages.
func (e *Engine) Score(loc model.Location, comp model.Company, geo model.GeoDistances) (*model.ScoredResult, error) {
	gradeLabel, gradePts, err := e.tables.TransitGrade.Lookup(loc.TransitGrade)
	if err != nil {
		return nil, eris.Wrapf(err, "rubric: score %s", comp.Name)
	}
	sectorLabel, sectorPts, err := e.tables.Sector.Lookup(comp.Sector)
	if err != nil {
		return nil, eris.Wrapf(err, "rubric: score %s", comp.Name)
	}

	locationMetrics := []model.MetricScore{
		{Metric: MetricTransitGrade, RawValue: gradeLabel, Bucket: gradeLabel, Points: gradePts},
		bucketScore(e.tables.EmployeesPer1000, loc.EmployeesPer1000, fmt.Sprintf("%.1f", loc.EmployeesPer1000)),
		bucketScore(e.tables.CommuterPercent, loc.CommuterPercent, fmt.Sprintf("%.2f%%", loc.CommuterPercent)),
		bucketScore(e.tables.CarOwnership, loc.CarOwnershipRate, fmt.Sprintf("%.0f", loc.CarOwnershipRate)),
		bucketScore(e.tables.ModalSplit, loc.CarModalSharePct, fmt.Sprintf("%.0f%%", loc.CarModalSharePct)),
	}

	companyMetrics := []model.MetricScore{
		bucketScore(e.tables.EmployeeCount, float64(comp.Employees), fmt.Sprintf("%d", comp.Employees)),
		bucketScore(e.tables.StopDistance, geo.StopDistanceM, distanceValue(geo.StopDistanceM, geo.StopName)),
		{Metric: MetricSector, RawValue: sectorLabel, Bucket: sectorLabel, Points: sectorPts},
		bucketScore(e.tables.MotorwayDistance, geo.MotorwayDistanceM, distanceValue(geo.MotorwayDistanceM, geo.MotorwayName)),
		bucketScore(e.tables.ParkingDistance, geo.ParkingDistanceM, distanceValue(geo.ParkingDistanceM, geo.ParkingName)),
	}

	locScore := meanPoints(locationMetrics)
	compScore := meanPoints(companyMetrics)

	return &model.ScoredResult{
		Company:         comp,
		Location:        loc,
		Geo:             geo,
		LocationMetrics: locationMetrics,
		CompanyMetrics:  companyMetrics,
		LocationScore:   locScore,
		CompanyScore:    compScore,
		OverallScore:    (locScore + compScore) / 2,
	}, nil
}

func bucketScore(t Table, v float64, raw string) model.MetricScore {
	b := t.Lookup(v)
	return model.MetricScore{Metric: t.Metric, RawValue: raw, Bucket: b.Label, Points: b.Points}
}

func distanceValue(meters float64, name string) string {
	if name == "" {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.0f m (%s)", meters, name)
}

func meanPoints(ms []model.MetricScore) float64 {
	var sum int
	for _, m := range ms {
		sum += m.Points
	}
	return float64(sum) / float64(len(ms))
}
