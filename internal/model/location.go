// Package model defines the domain types shared across the scoring pipeline.
package model

import "github.com/rotisserie/eris"

// ErrZeroDenominator is returned when a ratio derivation would divide by zero.
var ErrZeroDenominator = eris.New("model: zero denominator in ratio derivation")

// RegionCounts holds the raw statistics supplied for a region in the
// portfolio document. Ratios are derived from these once at resolution time.
type RegionCounts struct {
	Employees        float64 `json:"employees" yaml:"employees"`
	Residents        float64 `json:"residents" yaml:"residents"`
	InboundCommuters float64 `json:"inbound_commuters" yaml:"inbound_commuters"`
	CarOwnershipRate float64 `json:"car_ownership_rate" yaml:"car_ownership_rate"`
	CarModalSharePct float64 `json:"car_modal_share_pct" yaml:"car_modal_share_pct"`
}

// Location is a resolved region: raw counts plus derived ratios and the
// transit-quality grade. Immutable after resolution.
type Location struct {
	Name             string
	Employees        float64
	Residents        float64
	InboundCommuters float64
	CarOwnershipRate float64
	CarModalSharePct float64

	// TransitGrade is the ordinal A-E public-transport service rating.
	TransitGrade string

	// Derived at resolution time.
	EmployeesPer1000 float64
	CommuterPercent  float64
}

// DeriveRatios computes employees-per-1000-residents and the inbound
// commuter percentage from raw counts. Residents and employees must be
// positive; a zero denominator fails with ErrZeroDenominator.
func DeriveRatios(c RegionCounts) (per1000, commuterPct float64, err error) {
	if c.Residents == 0 {
		return 0, 0, eris.Wrap(ErrZeroDenominator, "derive employees per 1000: residents is zero")
	}
	if c.Employees == 0 {
		return 0, 0, eris.Wrap(ErrZeroDenominator, "derive commuter percent: employees is zero")
	}
	per1000 = c.Employees / c.Residents * 1000
	commuterPct = c.InboundCommuters / c.Employees * 100
	return per1000, commuterPct, nil
}
