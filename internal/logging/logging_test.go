package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disease-support-server/internal/domain"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		config        domain.LoggingConfig
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{"Defaults", domain.LoggingConfig{}, logrus.InfoLevel, false},
		{"Debug json", domain.LoggingConfig{Level: "debug", Format: "json"}, logrus.DebugLevel, true},
		{"Upper case format", domain.LoggingConfig{Level: "warn", Format: "JSON", Output: "stderr"}, logrus.WarnLevel, true},
		{"Warning alias", domain.LoggingConfig{Level: "warning", Format: "text"}, logrus.WarnLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New(domain.LoggingConfig{Level: "verbose", Format: "text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level: verbose")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	logger, err := New(domain.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.WithField("diseases", 4).Info("Disease profile registry built")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "Disease profile registry built", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(4), entry["diseases"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_BadFile(t *testing.T) {
	_, err := New(domain.LoggingConfig{Output: filepath.Join(t.TempDir(), "missing", "dir", "server.log")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
}
