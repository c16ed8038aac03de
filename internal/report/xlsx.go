// Package report renders a finished scoring run: an xlsx workbook with
// one sheet per company and a console summary.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/standort-labs/standort-cli/internal/batch"
	"github.com/standort-labs/standort-cli/internal/model"
)

// maxSheetNameLen is the xlsx hard limit on sheet names.
const maxSheetNameLen = 31

// OutputFilename returns the timestamped workbook name for a run started
// at the given time.
func OutputFilename(startedAt time.Time) string {
	return fmt.Sprintf("standort_scores_%s.xlsx", startedAt.Format("20060102_150405"))
}

// WriteWorkbook writes one sheet per scored company into dir and returns
// the workbook path.
func WriteWorkbook(run *batch.RunResult, dir string) (string, error) {
	if run.Processed() == 0 {
		return "", eris.New("report: no scored companies to write")
	}

	f := xlsx.NewFile()
	used := make(map[string]int)
	for _, res := range run.Results {
		sheet, err := f.AddSheet(sheetName(res.Company.Name, used))
		if err != nil {
			return "", eris.Wrapf(err, "report: add sheet for %s", res.Company.Name)
		}
		fillSheet(sheet, res)
	}

	path := filepath.Join(dir, OutputFilename(run.StartedAt))
	if err := f.Save(path); err != nil {
		return "", eris.Wrapf(err, "report: save %s", path)
	}

	zap.L().Info("report: workbook written",
		zap.String("path", path),
		zap.Int("sheets", run.Processed()),
	)
	return path, nil
}

func fillSheet(sheet *xlsx.Sheet, res *model.ScoredResult) {
	addRow(sheet, "Company", res.Company.Name)
	if res.Company.Address != "" {
		addRow(sheet, "Address", res.Company.Address)
	}
	addRow(sheet, "Location", res.Location.Name)
	addRow(sheet)

	addRow(sheet, "Location parameters", "Value", "Category", "Points")
	for _, m := range res.LocationMetrics {
		addMetricRow(sheet, m)
	}
	addScoreRow(sheet, "Location average", res.LocationScore)
	addRow(sheet)

	addRow(sheet, "Company parameters", "Value", "Category", "Points")
	for _, m := range res.CompanyMetrics {
		addMetricRow(sheet, m)
	}
	addScoreRow(sheet, "Company average", res.CompanyScore)
	addRow(sheet)

	addScoreRow(sheet, "Overall score", res.OverallScore)
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func addMetricRow(sheet *xlsx.Sheet, m model.MetricScore) {
	row := sheet.AddRow()
	row.AddCell().SetString(metricLabel(m.Metric))
	row.AddCell().SetString(m.RawValue)
	row.AddCell().SetString(m.Bucket)
	row.AddCell().SetInt(m.Points)
}

func addScoreRow(sheet *xlsx.Sheet, label string, score float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString("")
	row.AddCell().SetString("")
	row.AddCell().SetFloatWithFormat(score, "0.00")
}

// sheetName fits a company name into the xlsx constraints: forbidden
// characters replaced, 31-char cap, duplicates disambiguated.
func sheetName(company string, used map[string]int) string {
	name := company
	for _, ch := range []string{"[", "]", ":", "*", "?", "/", "\\"} {
		name = strings.ReplaceAll(name, ch, "_")
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}

	used[name]++
	if n := used[name]; n > 1 {
		suffix := fmt.Sprintf(" (%d)", n)
		if len(name)+len(suffix) > maxSheetNameLen {
			name = name[:maxSheetNameLen-len(suffix)]
		}
		name += suffix
	}
	return name
}

func metricLabel(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
