package region

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/standort-labs/standort-cli/internal/fetcher"
)

// LoadFile loads the regional reference table from a CSV or XLSX file,
// detected by extension.
func LoadFile(ctx context.Context, path string) (*Resolver, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "region: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		rows, err := fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{TrimSpace: true})
		if err != nil {
			return nil, eris.Wrapf(err, "region: read %s", path)
		}
		return fromRows(rows, path)

	case ".xlsx":
		rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
		if err != nil {
			return nil, eris.Wrapf(err, "region: read %s", path)
		}
		return fromRows(rows, path)

	default:
		return nil, eris.Errorf("region: unsupported reference file %s (need .csv or .xlsx)", path)
	}
}

// fromRows parses header-addressed rows into reference entries. The table
// must carry a region-name column and a mean_score column; the BFS number
// is kept when present.
func fromRows(rows [][]string, source string) (*Resolver, error) {
	if len(rows) < 2 {
		return nil, eris.Errorf("region: reference table %s has no data rows", source)
	}

	nameIdx, scoreIdx, bfsIdx := -1, -1, -1
	for i, col := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "gemeinde", "region", "name":
			nameIdx = i
		case "mean_score", "score":
			scoreIdx = i
		case "bfs_nummer", "bfs":
			bfsIdx = i
		}
	}
	if nameIdx < 0 || scoreIdx < 0 {
		return nil, eris.Errorf("region: reference table %s is missing gemeinde/mean_score columns", source)
	}

	var entries []Entry
	var skipped int
	for _, row := range rows[1:] {
		if len(row) <= nameIdx || len(row) <= scoreIdx || row[nameIdx] == "" {
			skipped++
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreIdx]), 64)
		if err != nil {
			skipped++
			continue
		}
		e := Entry{Name: row[nameIdx], MeanScore: score}
		if bfsIdx >= 0 && len(row) > bfsIdx {
			e.BFSNumber = row[bfsIdx]
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, eris.Errorf("region: reference table %s yielded no usable rows", source)
	}
	if skipped > 0 {
		zap.L().Debug("region: skipped unparseable rows",
			zap.String("source", source),
			zap.Int("skipped", skipped),
		)
	}

	return NewResolver(entries), nil
}
