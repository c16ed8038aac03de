package model

// Company is a single company to score. Immutable after construction.
type Company struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Employees int
	Sector    string

	// LocationRef names the portfolio location this company belongs to.
	LocationRef string
}

// GeoDistances holds the per-company geospatial lookup results that feed
// the company-side metrics. Distances are straight-line meters.
type GeoDistances struct {
	StopName      string
	StopDistanceM float64

	MotorwayName      string
	MotorwayDistanceM float64

	ParkingName      string
	ParkingDistanceM float64
}
