package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/realmcore/achievement-server-go/internal/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"default level", config.LoggingConfig{Format: "console"}, zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug console", config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn json", config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initLogger(tt.cfg, "achievement-server")
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.muted))
		})
	}
}

func TestInitLogger_Rejects(t *testing.T) {
	_, err := initLogger(config.LoggingConfig{Level: "loud"}, "achievement-server")
	assert.ErrorContains(t, err, "logging.level")

	_, err = initLogger(config.LoggingConfig{Level: "info", Format: "xml"}, "achievement-server")
	assert.ErrorContains(t, err, "logging.format")
}
