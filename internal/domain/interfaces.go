package domain

import (
	"context"
)

// Diagnoser ranks diseases and co-infections for a set of reported symptoms
type Diagnoser interface {
	Diagnose(ctx context.Context, symptoms []string) (Diagnosis, error)
}

// DiagnosisCache stores diagnoses keyed by registry fingerprint and normalized symptom set.
// A miss is reported as (nil, false, nil).
type DiagnosisCache interface {
	Get(ctx context.Context, key string) (Diagnosis, bool, error)
	Set(ctx context.Context, key string, diagnosis Diagnosis) error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetCacheConfig() *CacheConfig
	GetLoggingConfig() *LoggingConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
