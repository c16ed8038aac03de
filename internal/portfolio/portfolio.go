// Package portfolio loads and validates the scoring input document: the
// regions under consideration and the companies to score against them.
package portfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/standort-labs/standort-cli/internal/model"
)

// LocationInput is one region entry: the raw counts plus an optional
// manual transit grade that bypasses the reference-table lookup.
type LocationInput struct {
	Name               string `json:"name" yaml:"name"`
	model.RegionCounts `yaml:",inline"`

	// TransitGrade, when set, overrides the grade derived from the
	// regional reference table.
	TransitGrade string `json:"transit_grade,omitempty" yaml:"transit_grade,omitempty"`
}

// Overrides carries manual per-company distances that replace the remote
// lookups, the escape hatch for companies where the spatial service has
// no coverage.
type Overrides struct {
	StopDistanceM     *float64 `json:"stop_distance_m,omitempty" yaml:"stop_distance_m,omitempty"`
	MotorwayDistanceM *float64 `json:"motorway_distance_m,omitempty" yaml:"motorway_distance_m,omitempty"`
	ParkingDistanceM  *float64 `json:"parking_distance_m,omitempty" yaml:"parking_distance_m,omitempty"`
}

// CompanyInput is one company entry.
type CompanyInput struct {
	Name      string    `json:"name" yaml:"name"`
	Address   string    `json:"address" yaml:"address"`
	Latitude  float64   `json:"latitude" yaml:"latitude"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
	Employees int       `json:"employees" yaml:"employees"`
	Sector    string    `json:"sector" yaml:"sector"`
	Location  string    `json:"location" yaml:"location"`
	Overrides Overrides `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Portfolio is the full input document.
type Portfolio struct {
	Locations []LocationInput `json:"locations" yaml:"locations"`
	Companies []CompanyInput  `json:"companies" yaml:"companies"`
}

// Load reads and validates a portfolio document, JSON or YAML by
// extension.
func Load(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "portfolio: read %s", path)
	}

	var p Portfolio
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrapf(err, "portfolio: parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrapf(err, "portfolio: parse %s", path)
		}
	default:
		return nil, eris.Errorf("portfolio: unsupported document %s (need .json or .yaml)", path)
	}

	if err := p.Validate(); err != nil {
		return nil, eris.Wrapf(err, "portfolio: validate %s", path)
	}
	return &p, nil
}

// Validate checks structural integrity: non-empty names, unique and known
// location references, coordinates in range.
func (p *Portfolio) Validate() error {
	if len(p.Companies) == 0 {
		return eris.New("no companies")
	}

	known := make(map[string]struct{}, len(p.Locations))
	for i, loc := range p.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			return eris.Errorf("location %d has no name", i)
		}
		if _, dup := known[loc.Name]; dup {
			return eris.Errorf("duplicate location %q", loc.Name)
		}
		known[loc.Name] = struct{}{}
	}

	for i, c := range p.Companies {
		if strings.TrimSpace(c.Name) == "" {
			return eris.Errorf("company %d has no name", i)
		}
		if c.Location == "" {
			return eris.Errorf("company %q has no location reference", c.Name)
		}
		if _, ok := known[c.Location]; !ok {
			return eris.Errorf("company %q references unknown location %q", c.Name, c.Location)
		}
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			return eris.Errorf("company %q has out-of-range coordinates %.4f,%.4f",
				c.Name, c.Latitude, c.Longitude)
		}
		if c.Employees < 0 {
			return eris.Errorf("company %q has negative employee count", c.Name)
		}
	}
	return nil
}

// LocationByName returns the location entry with the given name.
func (p *Portfolio) LocationByName(name string) (LocationInput, bool) {
	for _, loc := range p.Locations {
		if loc.Name == name {
			return loc, true
		}
	}
	return LocationInput{}, false
}

// Company converts a CompanyInput into the domain type.
func (c CompanyInput) Company() model.Company {
	return model.Company{
		Name:        c.Name,
		Address:     c.Address,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		Employees:   c.Employees,
		Sector:      c.Sector,
		LocationRef: c.Location,
	}
}
