package service

import (
	"sort"

	"github.com/disease-support-server/internal/domain"
)

// Scoring constants
const (
	PrimaryWeight      = 3.0
	SecondaryWeight    = 1.5
	SeverityMultiplier = 1.2

	// ConfidenceFloor is returned for any match at or below it.
	ConfidenceFloor = 20.0
	// ConfidenceCeiling caps base disease confidences in the diagnosis pipeline.
	ConfidenceCeiling = 100.0
)

// SymptomSet is a set of normalized codes.
type SymptomSet map[domain.SymptomCode]struct{}

// NewSymptomSet collapses codes into a set.
func NewSymptomSet(codes []domain.SymptomCode) SymptomSet {
	set := make(SymptomSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Sorted returns the members in lexical order.
func (s SymptomSet) Sorted() []domain.SymptomCode {
	out := make([]domain.SymptomCode, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Score computes the weighted-overlap confidence of codes against profile.
//
// Severity contributions are a bonus that is not part of the denominator, so
// the raw value may exceed 100; only the floor is applied here. An empty set
// is a legal input and scores exactly ConfidenceFloor. A profile without any
// primary or secondary symptom yields an InvalidProfileError.
func Score(codes SymptomSet, profile domain.DiseaseProfile) (float64, error) {
	totalPossible := float64(profile.PrimaryCount())*PrimaryWeight +
		float64(profile.SecondaryCount())*SecondaryWeight
	if totalPossible == 0 {
		return 0, &domain.InvalidProfileError{}
	}

	var primaryMatches, secondaryMatches int
	var severityScore float64
	// sorted so the floating point sum is identical on every call
	for _, c := range codes.Sorted() {
		if profile.IsPrimary(c) {
			primaryMatches++
		}
		if profile.IsSecondary(c) {
			secondaryMatches++
		}
		if w, ok := profile.SeverityWeight(c); ok {
			severityScore += w * SeverityMultiplier
		}
	}

	actual := float64(primaryMatches)*PrimaryWeight +
		float64(secondaryMatches)*SecondaryWeight +
		severityScore

	confidence := actual / totalPossible * 100
	if confidence <= ConfidenceFloor {
		return ConfidenceFloor, nil
	}
	return confidence, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
