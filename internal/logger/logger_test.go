package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	appConfig "github.com/mohammadpnp/graph-user-import/internal/config"
)

func TestNewWithConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       appConfig.LoggerConfig
		wantLevel zapcore.Level
	}{
		{
			name:      "production json",
			cfg:       appConfig.LoggerConfig{Level: "info", Format: "json", Output: "stdout"},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name:      "development console",
			cfg:       appConfig.LoggerConfig{Level: "debug", Format: "console", Output: "stderr"},
			wantLevel: zapcore.DebugLevel,
		},
		{
			name:      "bad level falls back to info",
			cfg:       appConfig.LoggerConfig{Level: "loud", Format: "json", Output: "stderr"},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name:      "unknown output falls back to stderr",
			cfg:       appConfig.LoggerConfig{Level: "warn", Format: "console", Output: "/var/log/x"},
			wantLevel: zapcore.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewWithConfig(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.True(t, log.Desugar().Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, log.Desugar().Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}
