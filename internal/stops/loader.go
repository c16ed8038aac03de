package stops

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/standort-labs/standort-cli/internal/fetcher"
)

// LoadFile loads the stop registry from a CSV (Name,E,N columns) or a
// point shapefile with LV95 coordinates, detected by extension.
func LoadFile(ctx context.Context, path string) (*Index, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(ctx, path)
	case ".shp":
		return loadShapefile(path)
	default:
		return nil, eris.Errorf("stops: unsupported registry file %s (need .csv or .shp)", path)
	}
}

func loadCSV(ctx context.Context, path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "stops: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, eris.Wrapf(err, "stops: read %s", path)
	}
	if len(rows) < 2 {
		return nil, eris.Errorf("stops: registry %s has no data rows", path)
	}

	nameIdx, eIdx, nIdx := -1, -1, -1
	for i, col := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameIdx = i
		case "e":
			eIdx = i
		case "n":
			nIdx = i
		}
	}
	if nameIdx < 0 || eIdx < 0 || nIdx < 0 {
		return nil, eris.Errorf("stops: registry %s is missing Name/E/N columns", path)
	}

	var list []Stop
	var skipped int
	for _, row := range rows[1:] {
		if len(row) <= nameIdx || len(row) <= eIdx || len(row) <= nIdx {
			skipped++
			continue
		}
		e, errE := strconv.ParseFloat(row[eIdx], 64)
		n, errN := strconv.ParseFloat(row[nIdx], 64)
		if errE != nil || errN != nil {
			skipped++
			continue
		}
		list = append(list, Stop{Name: row[nameIdx], E: e, N: n})
	}

	if len(list) == 0 {
		return nil, eris.Errorf("stops: registry %s yielded no usable rows", path)
	}
	if skipped > 0 {
		zap.L().Debug("stops: skipped unparseable rows",
			zap.String("source", path),
			zap.Int("skipped", skipped),
		)
	}

	zap.L().Info("stops: registry loaded",
		zap.String("source", path),
		zap.Int("count", len(list)),
	)
	return NewIndex(list), nil
}

func loadShapefile(path string) (*Index, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "stops: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Locate the name attribute field.
	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.ToLower(strings.TrimRight(f.String(), "\x00"))
		if name == "name" {
			nameIdx = i
			break
		}
	}

	var list []Stop
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			skipped++
			continue
		}
		name := ""
		if nameIdx >= 0 {
			name = strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		}
		list = append(list, Stop{Name: name, E: point.X, N: point.Y})
	}

	if len(list) == 0 {
		return nil, eris.Errorf("stops: shapefile %s has no point records", path)
	}
	if skipped > 0 {
		zap.L().Debug("stops: skipped non-point records",
			zap.String("source", path),
			zap.Int("skipped", skipped),
		)
	}

	zap.L().Info("stops: registry loaded",
		zap.String("source", path),
		zap.Int("count", len(list)),
	)
	return NewIndex(list), nil
}
