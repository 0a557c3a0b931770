package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/disease-support-server/internal/domain"
)

// Co-infection combination constants
const (
	CoinfectionFactor    = 0.8
	CoinfectionThreshold = 40.0
)

// DiagnosisService runs the diagnosis pipeline: normalization, per-disease
// scoring, co-infection combination, filtering and ranking.
//
// The service holds only immutable collaborators and call-scoped state, so
// one instance is shared by every request handler.
type DiagnosisService struct {
	logger     *logrus.Logger
	normalizer *SymptomNormalizer
	registry   *Registry
	cache      domain.DiagnosisCache
}

// DiagnosisOption configures a DiagnosisService.
type DiagnosisOption func(*DiagnosisService)

// WithCache enables result caching. Cache failures are logged and never fail a diagnosis.
func WithCache(cache domain.DiagnosisCache) DiagnosisOption {
	return func(s *DiagnosisService) {
		s.cache = cache
	}
}

// NewDiagnosisService creates a new diagnosis service
func NewDiagnosisService(logger *logrus.Logger, normalizer *SymptomNormalizer, registry *Registry, opts ...DiagnosisOption) *DiagnosisService {
	s := &DiagnosisService{
		logger:     logger,
		normalizer: normalizer,
		registry:   registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalizer returns the symptom normalizer used by the service.
func (s *DiagnosisService) Normalizer() *SymptomNormalizer { return s.normalizer }

// Registry returns the profile registry used by the service.
func (s *DiagnosisService) Registry() *Registry { return s.registry }

// Diagnose ranks every base disease and every co-infection above the
// inclusion threshold for the given free-text symptoms.
func (s *DiagnosisService) Diagnose(ctx context.Context, symptoms []string) (domain.Diagnosis, error) {
	startTime := time.Now()

	codes := NewSymptomSet(s.normalizer.Normalize(symptoms))
	key := s.cacheKey(codes)

	if cached, ok := s.lookupCache(ctx, key); ok {
		s.logger.WithFields(logrus.Fields{
			"symptoms":        len(symptoms),
			"recognized":      len(codes),
			"results":         len(cached),
			"cache_hit":       true,
			"processing_time": time.Since(startTime),
		}).Debug("Diagnosis served from cache")
		return cached, nil
	}

	diagnosis, err := s.Rank(codes)
	if err != nil {
		s.logger.WithError(err).Error("Diagnosis failed")
		return nil, fmt.Errorf("failed to rank diseases: %w", err)
	}

	s.storeCache(ctx, key, diagnosis)

	s.logger.WithFields(logrus.Fields{
		"symptoms":        len(symptoms),
		"recognized":      len(codes),
		"results":         len(diagnosis),
		"cache_hit":       false,
		"processing_time": time.Since(startTime),
	}).Info("Diagnosis completed")

	return diagnosis, nil
}

// Rank scores an already normalized code set against the registry.
func (s *DiagnosisService) Rank(codes SymptomSet) (domain.Diagnosis, error) {
	base := s.registry.Base()
	coinfections := s.registry.Coinfections()

	results := make(domain.Diagnosis, 0, len(base)+len(coinfections))
	confidences := make(map[domain.DiseaseID]float64, len(base))

	for _, d := range base {
		score, err := Score(codes, d.Profile)
		if err != nil {
			var profileErr *domain.InvalidProfileError
			if errors.As(err, &profileErr) {
				return nil, &domain.InvalidProfileError{Disease: d.ID}
			}
			return nil, fmt.Errorf("failed to score %s: %w", d.ID, err)
		}
		confidence := clamp(score, ConfidenceFloor, ConfidenceCeiling)
		confidences[d.ID] = confidence
		results = append(results, domain.DiagnosisEntry{Disease: d.ID, Confidence: confidence})
	}

	for _, c := range coinfections {
		individual := []float64{confidences[c.First], confidences[c.Second]}
		combined := sum(individual) * CoinfectionFactor / float64(len(individual))
		if combined > CoinfectionThreshold {
			results = append(results, domain.DiagnosisEntry{Disease: c.ID, Confidence: combined})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	return results, nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func (s *DiagnosisService) cacheKey(codes SymptomSet) string {
	sorted := codes.Sorted()
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = string(c)
	}
	return s.registry.Fingerprint() + ":" + strings.Join(parts, ",")
}

func (s *DiagnosisService) lookupCache(ctx context.Context, key string) (domain.Diagnosis, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("cache_key", key).Warn("Diagnosis cache lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return append(domain.Diagnosis(nil), cached...), true
}

func (s *DiagnosisService) storeCache(ctx context.Context, key string, diagnosis domain.Diagnosis) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, append(domain.Diagnosis(nil), diagnosis...)); err != nil {
		s.logger.WithError(err).WithField("cache_key", key).Warn("Failed to store diagnosis in cache")
	}
}
