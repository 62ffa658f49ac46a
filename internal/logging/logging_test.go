package logging

import (
	"testing"

	"github.com/mouse-blink/pyintroduce/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("json logger honours the level", func(t *testing.T) {
		logger, err := New(config.LogConfig{Level: "error", Format: "json"})
		require.NoError(t, err)

		assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
		assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("console logger at debug", func(t *testing.T) {
		logger, err := New(config.LogConfig{Level: "debug", Format: "console"})
		require.NoError(t, err)

		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "loud", Format: "json"})
		assert.ErrorContains(t, err, "invalid log level")
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "info", Format: "xml"})
		assert.ErrorContains(t, err, "unknown log format")
	})
}
