package logger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("Should write timestamped leveled single lines", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New("info", &buf)
		require.NoError(t, err)
		log.Warn("No associated change request", zap.String("commit", "abc123"))
		line := strings.TrimSuffix(buf.String(), "\n")
		assert.NotContains(t, line, "\n")
		assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} WARN No associated change request`), line)
		assert.Contains(t, line, `"commit": "abc123"`)
	})
	t.Run("Should drop entries below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New("warn", &buf)
		require.NoError(t, err)
		log.Info("hidden")
		assert.Empty(t, buf.String())
	})
	t.Run("Should reject unknown level", func(t *testing.T) {
		_, err := New("loud", &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}
