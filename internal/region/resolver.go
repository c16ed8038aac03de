// Package region resolves regional statistics: the transit-quality grade
// from the reference table plus the ratios derived from raw counts.
package region

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/standort-labs/standort-cli/internal/model"
)

// ErrRegionNotFound is returned when a region has no entry in the
// reference table. Callers fall back to a manual grade from the portfolio
// document or flag the company incomplete.
var ErrRegionNotFound = eris.New("region: not found in reference table")

// Entry is one row of the regional transit-quality reference table.
type Entry struct {
	Name      string
	BFSNumber string
	MeanScore float64
}

// Resolver looks up transit-quality grades and derives location ratios.
// The reference table is loaded once and read-only afterwards.
type Resolver struct {
	entries map[string]Entry
}

// NewResolver builds a Resolver over the given reference entries. Region
// names are matched case- and diacritic-insensitively, so "Zürich" and
// "Zurich" resolve to the same entry.
func NewResolver(entries []Entry) *Resolver {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[normalizeName(e.Name)] = e
	}
	return &Resolver{entries: m}
}

// Len reports the number of reference entries.
func (r *Resolver) Len() int { return len(r.entries) }

// Grade returns the transit-quality grade and underlying mean score for a
// region, or ErrRegionNotFound.
func (r *Resolver) Grade(name string) (string, float64, error) {
	e, ok := r.entries[normalizeName(name)]
	if !ok {
		return "", 0, eris.Wrapf(ErrRegionNotFound, "%q", name)
	}
	return GradeFromMean(e.MeanScore), e.MeanScore, nil
}

// Resolve builds an immutable Location for the region: grade from the
// reference table (or the manual override when set), ratios derived from
// the raw counts.
func (r *Resolver) Resolve(name string, counts model.RegionCounts, manualGrade string) (model.Location, error) {
	grade := strings.ToUpper(strings.TrimSpace(manualGrade))
	if grade == "" {
		var mean float64
		var err error
		grade, mean, err = r.Grade(name)
		if err != nil {
			return model.Location{}, err
		}
		zap.L().Info("region: grade resolved",
			zap.String("region", name),
			zap.String("grade", grade),
			zap.Float64("mean_score", mean),
		)
	} else {
		zap.L().Info("region: manual grade override",
			zap.String("region", name),
			zap.String("grade", grade),
		)
	}

	per1000, commuterPct, err := model.DeriveRatios(counts)
	if err != nil {
		return model.Location{}, eris.Wrapf(err, "region: resolve %q", name)
	}

	return model.Location{
		Name:             name,
		Employees:        counts.Employees,
		Residents:        counts.Residents,
		InboundCommuters: counts.InboundCommuters,
		CarOwnershipRate: counts.CarOwnershipRate,
		CarModalSharePct: counts.CarModalSharePct,
		TransitGrade:     grade,
		EmployeesPer1000: per1000,
		CommuterPercent:  commuterPct,
	}, nil
}

// GradeFromMean maps the reference table's numeric mean score onto the
// ordinal A-E grade.
func GradeFromMean(mean float64) string {
	switch {
	case mean >= 4.5:
		return "A"
	case mean >= 3.5:
		return "B"
	case mean >= 2.5:
		return "C"
	case mean >= 1.5:
		return "D"
	default:
		return "E"
	}
}

func normalizeName(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(fold, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
