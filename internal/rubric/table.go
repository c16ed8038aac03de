// Package rubric implements the threshold-to-points scoring rubric: ordered
// bucket tables for continuous metrics and category tables for ordinal ones.
package rubric

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownCategory is returned when a value falls outside every table:
// an unrecognized transit grade or industry-sector label. Out-of-table
// inputs fail loudly rather than defaulting.
var ErrUnknownCategory = eris.New("rubric: unrecognized category")

// Bucket is one (upper-bound, points) pair of a Table. The final bucket of
// every table is open-ended and carries UpperBound = +Inf.
type Bucket struct {
	UpperBound float64 `yaml:"upper_bound"`
	Points     int     `yaml:"points"`
	Label      string  `yaml:"label"`
}

// Table maps a continuous metric onto 1-5 points via ordered buckets,
// evaluated first-match. The first bucket matches values strictly below its
// bound, interior buckets match values up to and including their bound, and
// the final open bucket catches everything above the second-to-last bound.
type Table struct {
	Metric  string   `yaml:"metric"`
	Buckets []Bucket `yaml:"buckets"`
}

// Lookup returns the bucket the value falls into.
func (t Table) Lookup(v float64) Bucket {
	last := len(t.Buckets) - 1
	for i, b := range t.Buckets {
		switch {
		case i == 0:
			if v < b.UpperBound {
				return b
			}
		case i == last:
			return b
		default:
			if v <= b.UpperBound {
				return b
			}
		}
	}
	// Unreachable for a validated table; Validate enforces >= 2 buckets.
	return t.Buckets[last]
}

// Validate checks the table invariants: at least two buckets, strictly
// ascending bounds, an open final bucket, and points within 1-5.
func (t Table) Validate() error {
	var errs []string

	if len(t.Buckets) < 2 {
		errs = append(errs, "needs at least 2 buckets")
	}
	for i, b := range t.Buckets {
		if b.Points < 1 || b.Points > 5 {
			errs = append(errs, fmt.Sprintf("bucket %d: points %d outside 1-5", i, b.Points))
		}
		if i > 0 && b.UpperBound <= t.Buckets[i-1].UpperBound {
			errs = append(errs, fmt.Sprintf("bucket %d: bound %g not strictly ascending", i, b.UpperBound))
		}
	}
	if n := len(t.Buckets); n >= 2 && !math.IsInf(t.Buckets[n-1].UpperBound, 1) {
		errs = append(errs, "final bucket must be open (upper_bound +Inf)")
	}

	if len(errs) > 0 {
		return eris.Errorf("rubric: table %s invalid: %s", t.Metric, strings.Join(errs, "; "))
	}
	return nil
}

// CategoryTable maps a categorical metric (grade letter, sector label) onto
// points. Matching is case- and surrounding-whitespace-insensitive.
type CategoryTable struct {
	Metric string         `yaml:"metric"`
	Points map[string]int `yaml:"points"`
}

// Lookup returns the points and the canonical label for the given category,
// or ErrUnknownCategory if the label is outside the table.
func (t CategoryTable) Lookup(label string) (string, int, error) {
	needle := normalizeLabel(label)
	for canonical, pts := range t.Points {
		if normalizeLabel(canonical) == needle {
			return canonical, pts, nil
		}
	}
	return "", 0, eris.Wrapf(ErrUnknownCategory, "%s: %q", t.Metric, label)
}

// Validate checks points are within 1-5 and the table is non-empty.
func (t CategoryTable) Validate() error {
	if len(t.Points) == 0 {
		return eris.Errorf("rubric: category table %s is empty", t.Metric)
	}
	for label, pts := range t.Points {
		if pts < 1 || pts > 5 {
			return eris.Errorf("rubric: category table %s: %q has points %d outside 1-5", t.Metric, label, pts)
		}
	}
	return nil
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
