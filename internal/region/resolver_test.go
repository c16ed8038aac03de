package region

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standort-labs/standort-cli/internal/model"
)

func testResolver() *Resolver {
	return NewResolver([]Entry{
		{Name: "Zürich", BFSNumber: "261", MeanScore: 4.8},
		{Name: "Bern", BFSNumber: "351", MeanScore: 4.2},
		{Name: "Chur", BFSNumber: "3901", MeanScore: 2.1},
	})
}

func TestGradeFromMean(t *testing.T) {
	tests := []struct {
		mean float64
		want string
	}{
		{4.9, "A"}, {4.5, "A"}, {4.49, "B"}, {3.5, "B"},
		{3.49, "C"}, {2.5, "C"}, {2.49, "D"}, {1.5, "D"},
		{1.49, "E"}, {0, "E"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFromMean(tt.mean), "mean %g", tt.mean)
	}
}

func TestGradeDiacriticInsensitive(t *testing.T) {
	r := testResolver()

	for _, name := range []string{"Zürich", "Zurich", "zürich", " zurich "} {
		grade, mean, err := r.Grade(name)
		require.NoError(t, err, "name %q", name)
		assert.Equal(t, "A", grade)
		assert.Equal(t, 4.8, mean)
	}
}

func TestGradeNotFound(t *testing.T) {
	r := testResolver()

	_, _, err := r.Grade("Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegionNotFound))
}

func TestResolveDerivesRatios(t *testing.T) {
	r := testResolver()

	loc, err := r.Resolve("Zurich", model.RegionCounts{
		Employees:        536980,
		Residents:        427721,
		InboundCommuters: 338458.9,
		CarOwnershipRate: 340,
		CarModalSharePct: 25,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "A", loc.TransitGrade)
	assert.InDelta(t, 1255.87, loc.EmployeesPer1000, 0.01)
	assert.InDelta(t, 63.03, loc.CommuterPercent, 0.01)
}

func TestResolveManualGradeSkipsTable(t *testing.T) {
	r := testResolver()

	loc, err := r.Resolve("Atlantis", model.RegionCounts{
		Employees: 100, Residents: 1000, InboundCommuters: 40,
	}, "b")
	require.NoError(t, err)
	assert.Equal(t, "B", loc.TransitGrade)
}

func TestResolveZeroDenominators(t *testing.T) {
	r := testResolver()

	_, err := r.Resolve("Bern", model.RegionCounts{Employees: 10, Residents: 0}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrZeroDenominator))

	_, err = r.Resolve("Bern", model.RegionCounts{Employees: 0, Residents: 10}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrZeroDenominator))
}

func TestLoadFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.csv")
	content := "bfs_nummer,gemeinde,mean_score\n261,Zürich,4.8\n351,Bern,4.2\nbad,NoScore,abc\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	grade, _, err := r.Grade("Bern")
	require.NoError(t, err)
	assert.Equal(t, "B", grade)
}

func TestLoadFileMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	_, err := LoadFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing gemeinde/mean_score")
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	_, err := LoadFile(context.Background(), "regions.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported reference file")
}
