// Package cache stores diagnosis results keyed by registry fingerprint and
// normalized symptom set. A bounded in-process LRU is always used when
// caching is enabled; a Redis tier shared across replicas is optional.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/disease-support-server/internal/domain"
)

// Stats tracks cache performance counters
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// MemoryCache is an in-process LRU with per-entry expiry.
type MemoryCache struct {
	lru       *expirable.LRU[string, domain.Diagnosis]
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewMemoryCache creates a cache holding at most size entries for ttl each.
// A zero ttl disables expiry.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	c := &MemoryCache{}
	c.lru = expirable.NewLRU[string, domain.Diagnosis](size, func(string, domain.Diagnosis) {
		c.evictions.Add(1)
	}, ttl)
	return c
}

// Get implements domain.DiagnosisCache. It never fails.
func (c *MemoryCache) Get(_ context.Context, key string) (domain.Diagnosis, bool, error) {
	d, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return append(domain.Diagnosis(nil), d...), true, nil
}

// Set implements domain.DiagnosisCache. It never fails.
func (c *MemoryCache) Set(_ context.Context, key string, diagnosis domain.Diagnosis) error {
	c.lru.Add(key, append(domain.Diagnosis(nil), diagnosis...))
	return nil
}

// Purge drops every entry.
func (c *MemoryCache) Purge() {
	c.lru.Purge()
}

// Stats returns a snapshot of the counters.
func (c *MemoryCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.lru.Len(),
	}
}
