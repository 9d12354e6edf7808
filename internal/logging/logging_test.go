package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/adapted/internal/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		cfg  config.LogConfig
		want zapcore.Level
	}{
		{config.LogConfig{}, zapcore.InfoLevel},
		{config.LogConfig{Level: "debug"}, zapcore.DebugLevel},
		{config.LogConfig{Level: "warn", Development: true}, zapcore.WarnLevel},
		{config.LogConfig{Level: "error"}, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.cfg)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(tt.want), "level %v enabled", tt.want)
		if tt.want > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(tt.want-1), "level below %v disabled", tt.want)
		}
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
