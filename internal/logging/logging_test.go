package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pipesctl/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_TraceIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.ComponentLogger(
		logging.NewLogger(logging.Config{Level: "debug", Format: logging.FormatJSON}, &buf), "cli")

	ctx := logging.ContextWithTraceID(context.Background(), "01TRACE")
	logger.Info().Ctx(ctx).Msg("command started")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "01TRACE", event[logging.TraceIDField])
	assert.Equal(t, "cli", event["component"])
	assert.Equal(t, "command started", event["message"])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "warn", Format: logging.FormatJSON}, &buf)

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("stderr", func(t *testing.T) {
		var buf bytes.Buffer
		result := logging.NewLoggerWithPath(logging.Config{Output: logging.OutputStderr, Writer: &buf})
		assert.False(t, result.UsingFile)
		assert.False(t, result.FallbackUsed)
		require.NoError(t, result.Close())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "pipesctl.log")
		result := logging.NewLoggerWithPath(logging.Config{
			Level: "info", Format: logging.FormatConsole, Output: logging.OutputFile, File: path,
		})
		require.True(t, result.UsingFile)
		assert.Equal(t, path, result.FilePath)

		result.Logger.Info().Msg("to file")
		require.NoError(t, result.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"to file"`)
	})

	t.Run("fallback", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		var buf bytes.Buffer
		result := logging.NewLoggerWithPath(logging.Config{
			Output: logging.OutputFile, File: filepath.Join(blocker, "pipesctl.log"), Writer: &buf,
		})
		assert.False(t, result.UsingFile)
		assert.True(t, result.FallbackUsed)
		assert.NotEmpty(t, result.FallbackReason)
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, logging.TraceIDFromContext(ctx))

	id := logging.GetOrGenerateTraceID(ctx)
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	ctx = logging.ContextWithTraceID(ctx, id)
	assert.Equal(t, id, logging.GetOrGenerateTraceID(ctx))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Format: logging.FormatJSON}, &buf)
	ctx := logger.WithContext(context.Background())

	logging.FromContext(ctx).Info().Msg("via context")
	assert.Contains(t, buf.String(), "via context")

	assert.Equal(t, zerolog.Disabled, logging.FromContext(context.Background()).GetLevel())
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	audit := logging.NewAuditLogger(logging.AuditLoggerConfig{Enabled: true, Writer: &buf})
	require.True(t, audit.Enabled())

	ctx := logging.ContextWithAuditLogger(context.Background(), audit)
	start := time.Now()

	logging.AuditLoggerFromContext(ctx).Log(ctx, *logging.NewAuditEntry("pipe delete", "01TRACE").
		WithParameters(map[string]any{"Name": "orders"}).
		WithSuccess().
		WithDuration(start))
	logging.AuditLoggerFromContext(ctx).Log(ctx, *logging.NewAuditEntry("pipe stop", "01TRACE").
		WithError("AccessDenied"))
	logging.AuditLoggerFromContext(ctx).Log(ctx, *logging.NewAuditEntry("pipe start", "01TRACE").
		WithDeclined())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &raw))
	assert.Contains(t, raw, zerolog.TimestampFieldName)
	assert.Contains(t, raw, "duration_ms")
	assert.Equal(t, "01TRACE", raw["trace_id"])
	assert.NotContains(t, raw, "level", "audit lines carry no log level")

	var declined logging.AuditEntry
	require.NoError(t, json.Unmarshal(lines[2], &declined))
	assert.True(t, declined.Declined)
	assert.False(t, declined.Success)
	assert.Empty(t, declined.Error)

	var first, second logging.AuditEntry
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "pipe delete", first.Command)
	assert.True(t, first.Success)
	assert.Equal(t, "orders", first.Parameters["Name"])
	assert.False(t, second.Success)
	assert.Equal(t, "AccessDenied", second.Error)

	require.NoError(t, audit.Close())
}

func TestAuditLogger_Disabled(t *testing.T) {
	audit := logging.AuditLoggerFromContext(context.Background())
	assert.False(t, audit.Enabled())
	audit.Log(context.Background(), *logging.NewAuditEntry("pipe delete", ""))
	require.NoError(t, audit.Close())

	path := filepath.Join(t.TempDir(), "audit.log")
	fileAudit := logging.NewAuditLogger(logging.AuditLoggerConfig{Enabled: true, File: path})
	require.True(t, fileAudit.Enabled())
	fileAudit.Log(context.Background(), *logging.NewAuditEntry("pipe start", "x").WithSuccess())
	require.NoError(t, fileAudit.Close())
	assert.False(t, fileAudit.Enabled(), "a closed logger discards entries")
	fileAudit.Log(context.Background(), *logging.NewAuditEntry("pipe stop", "x").WithSuccess())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command":"pipe start"`)
	assert.NotContains(t, string(data), "pipe stop")
}
