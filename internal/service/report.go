package service

import (
	"context"
	"fmt"

	"github.com/disease-support-server/internal/domain"
)

// Report thresholds
const (
	HighConfidenceThreshold = 60.0
	SevereThreshold         = 70.0
	ModerateThreshold       = 50.0
)

// SeverityBand grades a co-infection confidence for display.
type SeverityBand struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ReportEntry is one ranked result annotated for clients.
type ReportEntry struct {
	Disease        domain.DiseaseID   `json:"disease"`
	Kind           domain.DiseaseKind `json:"kind"`
	Components     []domain.DiseaseID `json:"components,omitempty"`
	Confidence     float64            `json:"confidence"`
	HighConfidence bool               `json:"high_confidence"`
	Severity       *SeverityBand      `json:"severity,omitempty"`
}

// Report is the detailed form of a diagnosis.
type Report struct {
	Recognized   []string             `json:"recognized_symptoms"`
	Unrecognized []string             `json:"unrecognized_symptoms"`
	Codes        []domain.SymptomCode `json:"codes"`
	Results      []ReportEntry        `json:"results"`
}

// CoinfectionSeverity grades a co-infection confidence.
func CoinfectionSeverity(confidence float64) SeverityBand {
	switch {
	case confidence >= SevereThreshold:
		return SeverityBand{Level: "Severe", Message: "Immediate medical attention recommended"}
	case confidence >= ModerateThreshold:
		return SeverityBand{Level: "Moderate", Message: "Medical consultation advised"}
	default:
		return SeverityBand{Level: "Mild", Message: "Monitor symptoms carefully"}
	}
}

// BuildReport annotates each entry of diagnosis with its kind, its component
// diseases and, for co-infections, a severity band. Entries unknown to the
// registry are reported as base diseases.
func BuildReport(diagnosis domain.Diagnosis, registry *Registry) []ReportEntry {
	entries := make([]ReportEntry, 0, len(diagnosis))
	for _, d := range diagnosis {
		entry := ReportEntry{
			Disease:        d.Disease,
			Kind:           domain.KindDisease,
			Confidence:     d.Confidence,
			HighConfidence: d.Confidence > HighConfidenceThreshold,
		}
		if c, ok := registry.Coinfection(d.Disease); ok {
			band := CoinfectionSeverity(d.Confidence)
			entry.Kind = domain.KindCoinfection
			entry.Components = []domain.DiseaseID{c.First, c.Second}
			entry.Severity = &band
		}
		entries = append(entries, entry)
	}
	return entries
}

// Report runs Diagnose and returns the detailed form of the result.
func (s *DiagnosisService) Report(ctx context.Context, symptoms []string) (*Report, error) {
	diagnosis, err := s.Diagnose(ctx, symptoms)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	recognized, unrecognized := s.normalizer.Partition(symptoms)
	return &Report{
		Recognized:   recognized,
		Unrecognized: unrecognized,
		Codes:        NewSymptomSet(s.normalizer.Normalize(symptoms)).Sorted(),
		Results:      BuildReport(diagnosis, s.registry),
	}, nil
}
