package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/disease-support-server/internal/domain"
)

// Tiered checks the in-process cache first and falls back to a remote one.
// Remote hits are copied into memory.
type Tiered struct {
	memory *MemoryCache
	remote domain.DiagnosisCache
}

// NewTiered combines memory and remote.
func NewTiered(memory *MemoryCache, remote domain.DiagnosisCache) *Tiered {
	return &Tiered{memory: memory, remote: remote}
}

// Get implements domain.DiagnosisCache.
func (t *Tiered) Get(ctx context.Context, key string) (domain.Diagnosis, bool, error) {
	if d, ok, _ := t.memory.Get(ctx, key); ok {
		return d, true, nil
	}

	d, ok, err := t.remote.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	_ = t.memory.Set(ctx, key, d)
	return d, true, nil
}

// Set implements domain.DiagnosisCache. The memory tier is always written
// even when the remote write fails.
func (t *Tiered) Set(ctx context.Context, key string, diagnosis domain.Diagnosis) error {
	_ = t.memory.Set(ctx, key, diagnosis)
	return t.remote.Set(ctx, key, diagnosis)
}

// Close releases the remote tier when it holds connections.
func (t *Tiered) Close() error {
	if c, ok := t.remote.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// New builds the cache described by config. It returns nil when caching is
// disabled. When Redis is configured but unreachable at startup, the memory
// tier is used alone and a warning is logged.
func New(config domain.CacheConfig, logger *logrus.Logger) (domain.DiagnosisCache, error) {
	if !config.Enabled {
		logger.Info("Diagnosis cache disabled")
		return nil, nil
	}
	if config.MemorySize <= 0 {
		return nil, fmt.Errorf("invalid cache memory size: %d", config.MemorySize)
	}

	memory := NewMemoryCache(config.MemorySize, config.MemoryTTL)
	if config.RedisURL == "" {
		logger.WithFields(logrus.Fields{
			"memory_size": config.MemorySize,
			"memory_ttl":  config.MemoryTTL,
		}).Info("Diagnosis cache enabled")
		return memory, nil
	}

	remote, err := NewRedisCache(config, logger)
	if err != nil {
		logger.WithError(err).Warn("Redis cache unavailable, continuing with memory cache only")
		return memory, nil
	}

	logger.WithFields(logrus.Fields{
		"memory_size": config.MemorySize,
		"memory_ttl":  config.MemoryTTL,
		"redis_ttl":   config.RedisTTL,
	}).Info("Diagnosis cache enabled with Redis tier")
	return NewTiered(memory, remote), nil
}
