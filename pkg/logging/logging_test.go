package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestParseFields(t *testing.T) {
	fields := parseFields("service=ncbi, pass = 2,broken")
	assert.Equal(t, map[string]any{"service": "ncbi", "pass": "2"}, fields)
	assert.Empty(t, parseFields(""))
}

func TestParseTimeFormat(t *testing.T) {
	assert.Equal(t, "3:04PM", parseTimeFormat("kitchen"))
	assert.Equal(t, "2006-01-02", parseTimeFormat("2006-01-02"))
	assert.Equal(t, "3:04PM", parseTimeFormat("nonsense"))
}

// keepGlobalLevel restores zerolog's global level after the test.
func keepGlobalLevel(t *testing.T) {
	t.Helper()
	level := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(level) })
}

func TestNewLoggerFromConfigDiscard(t *testing.T) {
	keepGlobalLevel(t)
	logger := NewLoggerFromConfig(&Config{Level: "warn", Output: "discard", Format: "json"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLoggerFromConfigRestoresGlobalLevel(t *testing.T) {
	before := zerolog.GlobalLevel()
	t.Run("configure", func(t *testing.T) {
		keepGlobalLevel(t)
		NewLoggerFromConfig(&Config{Level: "error", Output: "discard"})
		assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	})
	assert.Equal(t, before, zerolog.GlobalLevel())
}

func TestConfigureFromEnv(t *testing.T) {
	keepGlobalLevel(t)
	previous := *Default()
	t.Cleanup(func() { SetDefault(previous) })

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT", "discard")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_FIELDS", "service=ncbi")

	ConfigureFromEnv()
	assert.Equal(t, zerolog.ErrorLevel, Default().GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	ctx = WithRequestID(ctx, "run-1")
	ctx = WithLabel(ctx, "Escherichia coli")

	assert.Equal(t, "run-1", RequestID(ctx))
	FromContext(ctx).Info().Msg("resolving")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-1", entry["request_id"])
	assert.Equal(t, "Escherichia coli", entry["label"])
}

func TestFromContextDefault(t *testing.T) {
	assert.Same(t, Default(), FromContext(context.Background()))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := CaptureLoggingForTest(t)
	Warn().Str("tax_id", "562").Msg("fetch attempt failed")

	assert.Equal(t, 1, tl.Count())
	assert.True(t, tl.Contains(`"tax_id":"562"`))
}
