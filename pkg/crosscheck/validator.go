// Package crosscheck compares CPU counters read through independent
// libraries and sanity-checks the derived percentages.
package crosscheck

import (
	"math"
	"sort"
)

// ValidationStatus indicates the agreement level of a cross-checked counter.
type ValidationStatus string

const (
	StatusValid    ValidationStatus = "valid"
	StatusSuspect  ValidationStatus = "suspect"
	StatusConflict ValidationStatus = "conflict"
)

// Source is one counter reading from a specific sampler.
type Source struct {
	Name  string
	Value float64
	Unit  string
}

// ValidationResult holds the cross-check outcome for a counter.
type ValidationResult struct {
	Metric       string
	Sources      []Source
	Consensus    float64
	MaxDeviation float64
	Status       ValidationStatus
}

// Validator cross-checks counters from multiple sources. Thresholds are
// deviations from the consensus in percent.
type Validator struct {
	SuspectThreshold  float64
	ConflictThreshold float64
}

// NewValidator creates a validator with default thresholds. Counters are
// read moments apart, so a small drift is expected.
func NewValidator() *Validator {
	return &Validator{
		SuspectThreshold:  1.0,
		ConflictThreshold: 5.0,
	}
}

// CrossCheck compares the readings of one counter. The consensus is the
// median; the status follows the largest deviation from it.
func (v *Validator) CrossCheck(metric string, sources []Source) ValidationResult {
	result := ValidationResult{
		Metric:  metric,
		Sources: sources,
		Status:  StatusValid,
	}

	switch len(sources) {
	case 0:
		return result
	case 1:
		result.Consensus = sources[0].Value
		return result
	}

	values := make([]float64, len(sources))
	for i, s := range sources {
		values[i] = s.Value
	}
	sort.Float64s(values)
	result.Consensus = median(values)

	for _, val := range values {
		if result.Consensus == 0 {
			if val != 0 {
				result.MaxDeviation = 100.0
			}
			continue
		}
		dev := math.Abs(val-result.Consensus) / result.Consensus * 100
		result.MaxDeviation = math.Max(result.MaxDeviation, dev)
	}

	switch {
	case result.MaxDeviation >= v.ConflictThreshold:
		result.Status = StatusConflict
	case result.MaxDeviation >= v.SuspectThreshold:
		result.Status = StatusSuspect
	}
	return result
}

// median expects sorted, non-empty values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
