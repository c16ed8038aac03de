package rubric

import "math"

// Metric keys. Location-side metrics come from the resolved region;
// company-side metrics come from the company record and geodata lookups.
const (
	MetricTransitGrade     = "transit_grade"
	MetricEmployeesPer1000 = "employees_per_1000"
	MetricCommuterPercent  = "commuter_percent"
	MetricCarOwnership     = "car_ownership_rate"
	MetricModalSplit       = "car_modal_share_pct"

	MetricEmployeeCount    = "employee_count"
	MetricStopDistance     = "stop_distance_m"
	MetricSector           = "sector"
	MetricMotorwayDistance = "motorway_distance_m"
	MetricParkingDistance  = "parking_distance_m"
)

// Recognized industry-sector labels.
const (
	SectorIT        = "IT & Software"
	SectorFinance   = "Finance, Insurance & Consulting"
	SectorServices  = "Administration, Education, Health & Services"
	SectorIndustry  = "Industry, Production & Trade"
	SectorLogistics = "Logistics & Transport"
)

// Tables bundles the ten metric tables of the rubric.
type Tables struct {
	TransitGrade     CategoryTable
	EmployeesPer1000 Table
	CommuterPercent  Table
	CarOwnership     Table
	ModalSplit       Table

	EmployeeCount    Table
	StopDistance     Table
	Sector           CategoryTable
	MotorwayDistance Table
	ParkingDistance  Table
}

// DefaultTables returns the standard rubric.
func DefaultTables() Tables {
	inf := math.Inf(1)
	return Tables{
		TransitGrade: CategoryTable{
			Metric: MetricTransitGrade,
			Points: map[string]int{"A": 5, "B": 4, "C": 3, "D": 2, "E": 1},
		},
		EmployeesPer1000: Table{
			Metric: MetricEmployeesPer1000,
			Buckets: []Bucket{
				{UpperBound: 300, Points: 5, Label: "< 300"},
				{UpperBound: 500, Points: 4, Label: "300–500"},
				{UpperBound: 700, Points: 3, Label: "501–700"},
				{UpperBound: 900, Points: 2, Label: "701–900"},
				{UpperBound: inf, Points: 1, Label: "> 900"},
			},
		},
		CommuterPercent: Table{
			Metric: MetricCommuterPercent,
			Buckets: []Bucket{
				{UpperBound: 40, Points: 5, Label: "< 40 %"},
				{UpperBound: 50, Points: 4, Label: "40–50 %"},
				// The reference rubric assigns 5 points to this bucket even
				// though 4 points sit below it. Kept verbatim for
				// compatibility; override via a rubric file if the
				// monotonic 3 is ever confirmed as the intended value.
				{UpperBound: 60, Points: 5, Label: "51–60 %"},
				{UpperBound: 70, Points: 2, Label: "61–70 %"},
				{UpperBound: inf, Points: 1, Label: "> 70 %"},
			},
		},
		CarOwnership: Table{
			Metric: MetricCarOwnership,
			Buckets: []Bucket{
				{UpperBound: 500, Points: 5, Label: "< 500"},
				{UpperBound: 600, Points: 4, Label: "500–600"},
				{UpperBound: 700, Points: 3, Label: "601–700"},
				{UpperBound: 800, Points: 2, Label: "701–800"},
				{UpperBound: inf, Points: 1, Label: "> 800"},
			},
		},
		ModalSplit: Table{
			Metric: MetricModalSplit,
			Buckets: []Bucket{
				{UpperBound: 40, Points: 5, Label: "< 40%"},
				{UpperBound: 50, Points: 4, Label: "40–50%"},
				{UpperBound: 60, Points: 3, Label: "51–60%"},
				{UpperBound: 70, Points: 2, Label: "61–70%"},
				{UpperBound: inf, Points: 1, Label: "> 70%"},
			},
		},
		EmployeeCount: Table{
			Metric: MetricEmployeeCount,
			Buckets: []Bucket{
				{UpperBound: 50, Points: 5, Label: "< 50"},
				{UpperBound: 100, Points: 4, Label: "50–100"},
				{UpperBound: 250, Points: 3, Label: "101–250"},
				{UpperBound: 500, Points: 2, Label: "251–500"},
				{UpperBound: inf, Points: 1, Label: "> 500"},
			},
		},
		StopDistance: Table{
			Metric: MetricStopDistance,
			Buckets: []Bucket{
				{UpperBound: 300, Points: 5, Label: "< 300 m"},
				{UpperBound: 500, Points: 4, Label: "300–500 m"},
				{UpperBound: 750, Points: 3, Label: "501–750 m"},
				{UpperBound: 1000, Points: 2, Label: "751–1000 m"},
				{UpperBound: inf, Points: 1, Label: "> 1000 m"},
			},
		},
		Sector: CategoryTable{
			Metric: MetricSector,
			Points: map[string]int{
				SectorIT:        5,
				SectorFinance:   4,
				SectorServices:  3,
				SectorIndustry:  2,
				SectorLogistics: 1,
			},
		},
		// Distance metrics where far is better: motorway noise/traffic and
		// scarce parking both reward large distances.
		MotorwayDistance: Table{
			Metric: MetricMotorwayDistance,
			Buckets: []Bucket{
				{UpperBound: 1000, Points: 1, Label: "< 1000 m"},
				{UpperBound: 2000, Points: 2, Label: "1000–2000 m"},
				{UpperBound: 3000, Points: 3, Label: "2001–3000 m"},
				{UpperBound: 5000, Points: 4, Label: "3001–5000 m"},
				{UpperBound: inf, Points: 5, Label: "> 5000 m"},
			},
		},
		ParkingDistance: Table{
			Metric: MetricParkingDistance,
			Buckets: []Bucket{
				{UpperBound: 100, Points: 1, Label: "< 100 m"},
				{UpperBound: 200, Points: 2, Label: "100–200 m"},
				{UpperBound: 300, Points: 3, Label: "201–300 m"},
				{UpperBound: 500, Points: 4, Label: "301–500 m"},
				{UpperBound: inf, Points: 5, Label: "> 500 m"},
			},
		},
	}
}

// Validate checks every table in the bundle.
func (t Tables) Validate() error {
	if err := t.TransitGrade.Validate(); err != nil {
		return err
	}
	if err := t.Sector.Validate(); err != nil {
		return err
	}
	for _, tbl := range t.ordered() {
		if err := tbl.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (t Tables) ordered() []Table {
	return []Table{
		t.EmployeesPer1000, t.CommuterPercent, t.CarOwnership, t.ModalSplit,
		t.EmployeeCount, t.StopDistance, t.MotorwayDistance, t.ParkingDistance,
	}
}
