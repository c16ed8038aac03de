package rubric

import (
	"math"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// overrideFile is the YAML layout for externalized rubric tables. Any table
// present replaces the default for that metric; absent metrics keep their
// defaults.
type overrideFile struct {
	Tables     []Table         `yaml:"tables"`
	Categories []CategoryTable `yaml:"categories"`
}

// LoadTables returns DefaultTables with overrides from the given YAML file
// applied, validated as a whole. An empty path returns the defaults.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, eris.Wrapf(err, "rubric: read override file %s", path)
	}

	var of overrideFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return Tables{}, eris.Wrapf(err, "rubric: parse override file %s", path)
	}

	for _, t := range of.Tables {
		// A trailing bucket without an explicit bound is the open bucket.
		if n := len(t.Buckets); n > 0 && t.Buckets[n-1].UpperBound == 0 {
			t.Buckets[n-1].UpperBound = math.Inf(1)
		}
		switch t.Metric {
		case MetricEmployeesPer1000:
			tables.EmployeesPer1000 = t
		case MetricCommuterPercent:
			tables.CommuterPercent = t
		case MetricCarOwnership:
			tables.CarOwnership = t
		case MetricModalSplit:
			tables.ModalSplit = t
		case MetricEmployeeCount:
			tables.EmployeeCount = t
		case MetricStopDistance:
			tables.StopDistance = t
		case MetricMotorwayDistance:
			tables.MotorwayDistance = t
		case MetricParkingDistance:
			tables.ParkingDistance = t
		default:
			return Tables{}, eris.Errorf("rubric: override for unknown metric %q", t.Metric)
		}
		zap.L().Info("rubric: table overridden", zap.String("metric", t.Metric))
	}

	for _, c := range of.Categories {
		switch c.Metric {
		case MetricTransitGrade:
			tables.TransitGrade = c
		case MetricSector:
			tables.Sector = c
		default:
			return Tables{}, eris.Errorf("rubric: override for unknown category metric %q", c.Metric)
		}
		zap.L().Info("rubric: category table overridden", zap.String("metric", c.Metric))
	}

	if err := tables.Validate(); err != nil {
		return Tables{}, err
	}
	return tables, nil
}
