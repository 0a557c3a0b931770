// Package domain contains the core entities shared by the symptom normalizer,
// the disease profile registry, the match scorer and the diagnosis pipeline.
//
// The classifier is rule based: confidence is derived from weighted symptom
// overlap against hand-authored disease profiles. It is not a validated
// clinical decision-support system and its confidences are not calibrated
// probabilities.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SymptomCode is the short canonical identifier of one clinical symptom, e.g. "HF".
type SymptomCode string

// DiseaseID identifies a base disease ("dengue") or a derived co-infection ("dengue_malaria").
type DiseaseID string

// CoinfectionSeparator joins two base disease identifiers into a co-infection identifier.
const CoinfectionSeparator = "_"

// CoinfectionID returns the identifier of the co-infection of first and second.
func CoinfectionID(first, second DiseaseID) DiseaseID {
	return first + CoinfectionSeparator + second
}

// DiseaseKind distinguishes base diseases from derived co-infections
type DiseaseKind string

const (
	KindDisease     DiseaseKind = "disease"
	KindCoinfection DiseaseKind = "coinfection"
)

// ErrNotFound is returned by lookups for unknown identifiers.
var ErrNotFound = errors.New("not found")

// DiseaseProfile describes the symptom signature of one disease or co-infection.
// A profile is immutable once constructed; accessors return copies.
type DiseaseProfile struct {
	primary   []SymptomCode
	secondary []SymptomCode
	weights   map[SymptomCode]float64

	primarySet   map[SymptomCode]struct{}
	secondarySet map[SymptomCode]struct{}
}

// NewDiseaseProfile builds a profile. Duplicate codes within the primary or
// secondary list are collapsed, keeping the first occurrence.
func NewDiseaseProfile(primary, secondary []SymptomCode, severityWeights map[SymptomCode]float64) DiseaseProfile {
	p := DiseaseProfile{
		weights: make(map[SymptomCode]float64, len(severityWeights)),
	}
	p.primary, p.primarySet = dedupe(primary)
	p.secondary, p.secondarySet = dedupe(secondary)
	for code, w := range severityWeights {
		p.weights[code] = w
	}
	return p
}

func dedupe(codes []SymptomCode) ([]SymptomCode, map[SymptomCode]struct{}) {
	ordered := make([]SymptomCode, 0, len(codes))
	set := make(map[SymptomCode]struct{}, len(codes))
	for _, c := range codes {
		if _, seen := set[c]; seen {
			continue
		}
		set[c] = struct{}{}
		ordered = append(ordered, c)
	}
	return ordered, set
}

// Primary returns the hallmark symptoms in declaration order.
func (p DiseaseProfile) Primary() []SymptomCode {
	return append([]SymptomCode(nil), p.primary...)
}

// Secondary returns the supportive symptoms in declaration order.
func (p DiseaseProfile) Secondary() []SymptomCode {
	return append([]SymptomCode(nil), p.secondary...)
}

// SeverityWeights returns a copy of the per-symptom severity multipliers.
func (p DiseaseProfile) SeverityWeights() map[SymptomCode]float64 {
	out := make(map[SymptomCode]float64, len(p.weights))
	for code, w := range p.weights {
		out[code] = w
	}
	return out
}

// IsPrimary reports whether code is a hallmark symptom of the profile.
func (p DiseaseProfile) IsPrimary(code SymptomCode) bool {
	_, ok := p.primarySet[code]
	return ok
}

// IsSecondary reports whether code is a supportive symptom of the profile.
func (p DiseaseProfile) IsSecondary(code SymptomCode) bool {
	_, ok := p.secondarySet[code]
	return ok
}

// SeverityWeight returns the severity multiplier for code, if any.
func (p DiseaseProfile) SeverityWeight(code SymptomCode) (float64, bool) {
	w, ok := p.weights[code]
	return w, ok
}

// PrimaryCount returns the number of distinct primary symptoms.
func (p DiseaseProfile) PrimaryCount() int { return len(p.primary) }

// SecondaryCount returns the number of distinct secondary symptoms.
func (p DiseaseProfile) SecondaryCount() int { return len(p.secondary) }

// BaseDisease is one authored entry of the disease catalogue.
type BaseDisease struct {
	ID      DiseaseID
	Profile DiseaseProfile
}

// VocabularyEntry maps one recognized free-text symptom name to its code.
type VocabularyEntry struct {
	Name     string      `json:"name" yaml:"name"`
	Code     SymptomCode `json:"code" yaml:"code"`
	Category string      `json:"category,omitempty" yaml:"category,omitempty"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
}

// DiagnosisEntry is one ranked (disease, confidence) pair.
// It serializes as a two element JSON array: ["dengue", 35.29].
type DiagnosisEntry struct {
	Disease    DiseaseID
	Confidence float64
}

// MarshalJSON encodes the entry as [disease, confidence].
func (e DiagnosisEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{e.Disease, e.Confidence})
}

// UnmarshalJSON decodes an entry encoded as [disease, confidence].
func (e *DiagnosisEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("diagnosis entry: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("diagnosis entry: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Disease); err != nil {
		return fmt.Errorf("diagnosis entry disease: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Confidence); err != nil {
		return fmt.Errorf("diagnosis entry confidence: %w", err)
	}
	return nil
}

// Diagnosis is the ranked result of one diagnose call, ordered by confidence
// descending. It is owned entirely by the caller.
type Diagnosis []DiagnosisEntry

// Lookup returns the confidence reported for id.
func (d Diagnosis) Lookup(id DiseaseID) (float64, bool) {
	for _, e := range d {
		if e.Disease == id {
			return e.Confidence, true
		}
	}
	return 0, false
}
