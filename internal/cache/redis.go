package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/disease-support-server/internal/domain"
)

// KeyPrefix namespaces diagnosis entries in a shared Redis database.
const KeyPrefix = "dss:diagnosis:"

// RedisCache stores diagnoses as JSON in Redis. Every call goes through a
// circuit breaker so an unreachable Redis costs one fast failure per call
// instead of a network timeout.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

// NewRedisCache connects to config.RedisURL and verifies the connection.
func NewRedisCache(config domain.CacheConfig, logger *logrus.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Apply cache-specific configurations
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.PoolTimeout > 0 {
		opts.PoolTimeout = config.PoolTimeout
	}
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheWithClient(client, config.RedisTTL, config.Breaker, logger), nil
}

// NewRedisCacheWithClient wraps an existing client without checking it.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration, breaker domain.BreakerConfig, logger *logrus.Logger) *RedisCache {
	threshold := breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "DiagnosisCache",
		MaxRequests: breaker.MaxRequests,
		Interval:    breaker.Interval,
		Timeout:     breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from_state":      from.String(),
				"to_state":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &RedisCache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Get implements domain.DiagnosisCache. A missing key is a miss, not a failure.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.Diagnosis, bool, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	data, _ := result.([]byte)
	if data == nil {
		return nil, false, nil
	}

	var diagnosis domain.Diagnosis
	if err := json.Unmarshal(data, &diagnosis); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached diagnosis: %w", err)
	}
	return diagnosis, true, nil
}

// Set implements domain.DiagnosisCache.
func (c *RedisCache) Set(ctx context.Context, key string, diagnosis domain.Diagnosis) error {
	data, err := json.Marshal(diagnosis)
	if err != nil {
		return fmt.Errorf("failed to encode diagnosis: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, KeyPrefix+key, data, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// State reports the circuit breaker state.
func (c *RedisCache) State() gobreaker.State {
	return c.breaker.State()
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
