package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fentz26/elhem/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		verbose bool
		want    zapcore.Level
	}{
		{"default", config.LogConfig{}, false, zapcore.InfoLevel},
		{"json warn", config.LogConfig{Level: "warn", Format: "json"}, false, zapcore.WarnLevel},
		{"console error", config.LogConfig{Level: "error", Format: "console"}, false, zapcore.ErrorLevel},
		{"verbose wins", config.LogConfig{Level: "error"}, true, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.verbose)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(config.LogConfig{Format: "xml"}, false)
	assert.Error(t, err)

	_, err = New(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
