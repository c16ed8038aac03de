package model

// MetricScore is one scored metric: the raw value as rendered in the
// report, the bucket (category) label it fell into, and the 1-5 points.
type MetricScore struct {
	Metric   string
	RawValue string
	Bucket   string
	Points   int
}

// ScoredResult is the outcome of scoring one company at its location.
// Derived and read-only; recompute rather than mutate.
type ScoredResult struct {
	Company  Company
	Location Location
	Geo      GeoDistances

	LocationMetrics []MetricScore
	CompanyMetrics  []MetricScore

	LocationScore float64
	CompanyScore  float64
	OverallScore  float64
}
