package rubric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standort-labs/standort-cli/internal/model"
)

func testLocation() model.Location {
	// Figures from the Zurich reference case: derived ratios land in the
	// worst employment-density bucket and the 61-70% commuter bucket.
	return model.Location{
		Name:             "Zurich",
		Employees:        536980,
		Residents:        427721,
		InboundCommuters: 338458.9,
		CarOwnershipRate: 340,
		CarModalSharePct: 25,
		TransitGrade:     "A",
		EmployeesPer1000: 1255.87,
		CommuterPercent:  63.03,
	}
}

func testCompany() model.Company {
	return model.Company{
		Name:        "Acme Analytics",
		Address:     "Bahnhofstrasse 1",
		Latitude:    47.3769,
		Longitude:   8.5417,
		Employees:   100,
		Sector:      "IT & Software",
		LocationRef: "Zurich",
	}
}

func testGeo() model.GeoDistances {
	return model.GeoDistances{
		StopName:      "Zuerich HB",
		StopDistanceM: 250,
		MotorwayName:  "Zuerich-City",
		MotorwayDistanceM: 3500,
		ParkingName:      "Parkhaus Urania",
		ParkingDistanceM: 420,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultTables())
	require.NoError(t, err)
	return e
}

func TestScoreWorkedExample(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Score(testLocation(), testCompany(), testGeo())
	require.NoError(t, err)

	require.Len(t, res.LocationMetrics, 5)
	require.Len(t, res.CompanyMetrics, 5)

	byMetric := map[string]model.MetricScore{}
	for _, m := range append(res.LocationMetrics, res.CompanyMetrics...) {
		byMetric[m.Metric] = m
	}

	assert.Equal(t, 5, byMetric[MetricTransitGrade].Points)
	assert.Equal(t, 1, byMetric[MetricEmployeesPer1000].Points, "1255.87 per 1000 is the worst bucket")
	assert.Equal(t, 2, byMetric[MetricCommuterPercent].Points, "63.03%% falls in 61-70, not the anomalous 51-60")
	assert.Equal(t, 5, byMetric[MetricCarOwnership].Points)
	assert.Equal(t, 5, byMetric[MetricModalSplit].Points)

	assert.Equal(t, 4, byMetric[MetricEmployeeCount].Points, "100 employees")
	assert.Equal(t, 5, byMetric[MetricSector].Points, "IT & Software")
	assert.Equal(t, 5, byMetric[MetricStopDistance].Points)
	assert.Equal(t, 4, byMetric[MetricMotorwayDistance].Points)
	assert.Equal(t, 4, byMetric[MetricParkingDistance].Points)

	assert.InDelta(t, 18.0/5, res.LocationScore, 1e-9)
	assert.InDelta(t, 22.0/5, res.CompanyScore, 1e-9)
	assert.InDelta(t, (res.LocationScore+res.CompanyScore)/2, res.OverallScore, 1e-12)
}

func TestScoreOverallIsMeanOfHalves(t *testing.T) {
	e := newTestEngine(t)

	locations := []model.Location{
		testLocation(),
		{Name: "Bern", TransitGrade: "C", EmployeesPer1000: 450, CommuterPercent: 55, CarOwnershipRate: 720, CarModalSharePct: 48},
		{Name: "Zug", TransitGrade: "E", EmployeesPer1000: 880, CommuterPercent: 72, CarOwnershipRate: 810, CarModalSharePct: 71},
	}

	for _, loc := range locations {
		res, err := e.Score(loc, testCompany(), testGeo())
		require.NoError(t, err)
		assert.InDelta(t, (res.LocationScore+res.CompanyScore)/2, res.OverallScore, 1e-12)
		for _, m := range append(res.LocationMetrics, res.CompanyMetrics...) {
			assert.GreaterOrEqual(t, m.Points, 1)
			assert.LessOrEqual(t, m.Points, 5)
		}
	}
}

func TestScoreIsPure(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.Score(testLocation(), testCompany(), testGeo())
	require.NoError(t, err)
	second, err := e.Score(testLocation(), testCompany(), testGeo())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreUnknownGrade(t *testing.T) {
	e := newTestEngine(t)

	loc := testLocation()
	loc.TransitGrade = "X"

	_, err := e.Score(loc, testCompany(), testGeo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestScoreUnknownSector(t *testing.T) {
	e := newTestEngine(t)

	comp := testCompany()
	comp.Sector = "Alchemy"

	_, err := e.Score(testLocation(), comp, testGeo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestNewEngineRejectsInvalidTables(t *testing.T) {
	tables := DefaultTables()
	tables.EmployeeCount.Buckets[0].Points = 9

	_, err := NewEngine(tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside 1-5")
}
