package service

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/disease-support-server/internal/cache"
	"github.com/disease-support-server/internal/catalogue"
	"github.com/disease-support-server/internal/domain"
)

// LoadCatalogue returns the catalogue at path, or the built-in one when path is empty.
func LoadCatalogue(path string) (*catalogue.Catalogue, error) {
	if path == "" {
		return catalogue.Default(), nil
	}
	cat, err := catalogue.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}
	return cat, nil
}

// NewFromCatalogue builds the normalizer and the registry once and wires them
// into a DiagnosisService. Vocabulary code collisions are logged, not resolved.
func NewFromCatalogue(logger *logrus.Logger, cat *catalogue.Catalogue, opts ...DiagnosisOption) *DiagnosisService {
	normalizer := NewSymptomNormalizer(cat.Vocabulary)
	registry := BuildRegistry(cat.Diseases)

	for code, names := range normalizer.Collisions() {
		logger.WithFields(logrus.Fields{
			"code":  code,
			"names": names,
		}).Warn("Several symptom names share one code; matches cannot tell them apart")
	}

	logger.WithFields(logrus.Fields{
		"vocabulary":   len(cat.Vocabulary),
		"diseases":     len(registry.Base()),
		"coinfections": len(registry.Coinfections()),
		"fingerprint":  registry.Fingerprint(),
	}).Info("Disease profile registry built")

	return NewDiagnosisService(logger, normalizer, registry, opts...)
}

// NewFromConfig loads the configured catalogue, builds the diagnosis cache and
// returns a ready service. The returned close function releases the cache.
func NewFromConfig(cfg *domain.Config, logger *logrus.Logger) (*DiagnosisService, func() error, error) {
	cat, err := LoadCatalogue(cfg.Catalogue.Path)
	if err != nil {
		return nil, nil, err
	}

	diagnosisCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cache: %w", err)
	}

	closeFn := func() error { return nil }
	var opts []DiagnosisOption
	if diagnosisCache != nil {
		opts = append(opts, WithCache(diagnosisCache))
		if c, ok := diagnosisCache.(io.Closer); ok {
			closeFn = c.Close
		}
	}

	return NewFromCatalogue(logger, cat, opts...), closeFn, nil
}
