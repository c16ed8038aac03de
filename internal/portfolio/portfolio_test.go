package portfolio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDoc = `
locations:
  - name: Zurich
    employees: 536980
    residents: 427721
    inbound_commuters: 338458.9
    car_ownership_rate: 340
    car_modal_share_pct: 25
  - name: Atlantis
    employees: 100
    residents: 1000
    inbound_commuters: 40
    transit_grade: B
companies:
  - name: Acme AG
    address: Bahnhofstrasse 1, Zürich
    latitude: 47.3769
    longitude: 8.5417
    employees: 100
    sector: IT & Software
    location: Zurich
  - name: Deep Blue GmbH
    address: Seegasse 9
    latitude: 47.0
    longitude: 8.0
    employees: 25
    sector: Logistics & Transport
    location: Atlantis
    overrides:
      stop_distance_m: 250
      motorway_distance_m: 3500
`

const jsonDoc = `{
  "locations": [
    {"name": "Zurich", "employees": 536980, "residents": 427721, "inbound_commuters": 338458.9}
  ],
  "companies": [
    {"name": "Acme AG", "latitude": 47.3769, "longitude": 8.5417, "employees": 100,
     "sector": "IT & Software", "location": "Zurich"}
  ]
}`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	p, err := Load(writeDoc(t, "portfolio.yaml", yamlDoc))
	require.NoError(t, err)

	require.Len(t, p.Locations, 2)
	require.Len(t, p.Companies, 2)

	zurich, ok := p.LocationByName("Zurich")
	require.True(t, ok)
	assert.Equal(t, 536980.0, zurich.Employees)
	assert.Equal(t, 338458.9, zurich.InboundCommuters)
	assert.Empty(t, zurich.TransitGrade)

	atlantis, ok := p.LocationByName("Atlantis")
	require.True(t, ok)
	assert.Equal(t, "B", atlantis.TransitGrade)

	acme := p.Companies[0].Company()
	assert.Equal(t, "Acme AG", acme.Name)
	assert.Equal(t, "Zurich", acme.LocationRef)
	assert.Nil(t, p.Companies[0].Overrides.StopDistanceM)

	deep := p.Companies[1]
	require.NotNil(t, deep.Overrides.StopDistanceM)
	assert.Equal(t, 250.0, *deep.Overrides.StopDistanceM)
	require.NotNil(t, deep.Overrides.MotorwayDistanceM)
	assert.Equal(t, 3500.0, *deep.Overrides.MotorwayDistanceM)
	assert.Nil(t, deep.Overrides.ParkingDistanceM)
}

func TestLoadJSON(t *testing.T) {
	p, err := Load(writeDoc(t, "portfolio.json", jsonDoc))
	require.NoError(t, err)
	require.Len(t, p.Companies, 1)
	assert.Equal(t, 427721.0, p.Locations[0].Residents)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeDoc(t, "portfolio.toml", "x = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document")
}

func TestValidate(t *testing.T) {
	base := func() *Portfolio {
		p, err := Load(writeDoc(t, "portfolio.yaml", yamlDoc))
		require.NoError(t, err)
		return p
	}

	tests := []struct {
		name    string
		mutate  func(p *Portfolio)
		wantErr string
	}{
		{"no companies", func(p *Portfolio) { p.Companies = nil }, "no companies"},
		{"unnamed location", func(p *Portfolio) { p.Locations[0].Name = " " }, "has no name"},
		{"duplicate location", func(p *Portfolio) { p.Locations[1].Name = "Zurich" }, "duplicate location"},
		{"unnamed company", func(p *Portfolio) { p.Companies[0].Name = "" }, "has no name"},
		{"missing ref", func(p *Portfolio) { p.Companies[0].Location = "" }, "no location reference"},
		{"unknown ref", func(p *Portfolio) { p.Companies[0].Location = "Gotham" }, "unknown location"},
		{"bad latitude", func(p *Portfolio) { p.Companies[0].Latitude = 91 }, "out-of-range coordinates"},
		{"negative employees", func(p *Portfolio) { p.Companies[0].Employees = -1 }, "negative employee count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
