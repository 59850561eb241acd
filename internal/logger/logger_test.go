package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Dreamvillians/tradeville-journal/config"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.level, func(t *testing.T) {
			t.Parallel()
			log, err := New(config.LogConfig{Level: tc.level})
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tc.want))
			if tc.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tc.want-1))
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(config.LogConfig{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestNewEncodings(t *testing.T) {
	t.Parallel()

	for _, enc := range []string{"", "json", "console"} {
		log, err := New(config.LogConfig{Encoding: enc, Development: enc == "console"})
		require.NoError(t, err, enc)
		assert.NotNil(t, log)
	}

	_, err := New(config.LogConfig{Encoding: "xml"})
	assert.Error(t, err)
}
