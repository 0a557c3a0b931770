package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Catalogue   CatalogueConfig `mapstructure:"catalogue"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	MCP         MCPConfig       `mapstructure:"mcp"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes"`
	RateLimit          float64       `mapstructure:"rate_limit"` // requests per second per client, 0 disables
	RateBurst          int           `mapstructure:"rate_burst"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}

// CatalogueConfig points at an optional externally supplied catalogue.
// An empty path selects the built-in catalogue.
type CatalogueConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig represents diagnosis cache configuration
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MemorySize  int           `mapstructure:"memory_size"`
	MemoryTTL   time.Duration `mapstructure:"memory_ttl"`
	RedisURL    string        `mapstructure:"redis_url"` // empty disables the Redis tier
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig configures the circuit breaker guarding the Redis tier
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json", "text"
	Output string `mapstructure:"output"` // "stdout", "stderr" or a file path
}

// MCPConfig represents MCP server configuration
type MCPConfig struct {
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`
}
