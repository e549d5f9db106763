// Package rules holds the declarative enrichment rule set: which lifecycle
// statuses count as high risk and how installation age is measured.
package rules

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"assetpipe/internal"
)

type Set struct {
	// Lifecycle statuses mapped to the high label. Matching is
	// case-sensitive against the canonical enum values.
	HighStatuses []string `yaml:"high_statuses"`
	HighLabel    string   `yaml:"high_label"`
	LowLabel     string   `yaml:"low_label"`

	// Day-count convention for fractional years.
	DaysPerYear float64 `yaml:"days_per_year"`
}

// Default mirrors the production rule set: EOL/EOS are high risk, everything
// else (including Unknown or malformed statuses) is low, and age uses the
// 365.25 days/year convention.
func Default() Set {
	return Set{
		HighStatuses: []string{internal.LifecycleEOL, internal.LifecycleEOS},
		HighLabel:    internal.RiskHigh,
		LowLabel:     internal.RiskLow,
		DaysPerYear:  365.25,
	}
}

// Load reads a rule set from a YAML file. Fields left out of the file keep
// their defaults. An empty path returns the defaults unchanged.
func Load(path string) (Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(blob, &set); err != nil {
		return Set{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if set.HighLabel == "" || set.LowLabel == "" || set.DaysPerYear <= 0 {
		return Set{}, fmt.Errorf("invalid rules file %s: labels and days_per_year are required", path)
	}
	return set, nil
}

// RiskLevel classifies a lifecycle status. Never errors: a status matching
// no rule is low risk by definition.
func (s Set) RiskLevel(lifecycleStatus string) string {
	for _, status := range s.HighStatuses {
		if lifecycleStatus == status {
			return s.HighLabel
		}
	}
	return s.LowLabel
}

// AgeYears computes fractional years between the installation date and the
// reference date, floored at zero. Returns nil when the date is absent.
func (s Set) AgeYears(installDate *time.Time, reference time.Time) *float64 {
	if installDate == nil {
		return nil
	}
	years := reference.Sub(*installDate).Hours() / (24 * s.DaysPerYear)
	years = math.Max(0, years)
	return &years
}
