package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// AuditEntry records one state-changing invocation.
type AuditEntry struct {
	TraceID    string         `json:"trace_id"`
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Success    bool           `json:"success"`
	Declined   bool           `json:"declined,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}

// NewAuditEntry starts an entry for command.
func NewAuditEntry(command, traceID string) *AuditEntry {
	return &AuditEntry{TraceID: traceID, Command: command}
}

// WithParameters records the bound request parameters.
func (e *AuditEntry) WithParameters(params map[string]any) *AuditEntry {
	e.Parameters = params
	return e
}

// WithSuccess marks the entry successful.
func (e *AuditEntry) WithSuccess() *AuditEntry {
	e.Success = true
	return e
}

// WithDeclined marks an invocation the user declined at the prompt.
func (e *AuditEntry) WithDeclined() *AuditEntry {
	e.Declined = true
	return e
}

// WithError records a failure.
func (e *AuditEntry) WithError(msg string) *AuditEntry {
	e.Success = false
	e.Error = msg
	return e
}

// WithDuration records the time elapsed since start.
func (e *AuditEntry) WithDuration(start time.Time) *AuditEntry {
	e.DurationMS = time.Since(start).Milliseconds()
	return e
}

// AuditLoggerConfig configures NewAuditLogger.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
	// Writer receives entries instead of File when set.
	Writer io.Writer
}

// AuditLogger appends one JSON line per entry, with a "time" field. A
// disabled logger discards entries.
type AuditLogger struct {
	logger  zerolog.Logger
	enabled bool
	file    *os.File
}

// NewAuditLogger opens the audit log. A file that cannot be opened disables
// auditing.
func NewAuditLogger(cfg AuditLoggerConfig) *AuditLogger {
	if !cfg.Enabled {
		return &AuditLogger{}
	}
	if cfg.Writer != nil {
		return newAuditLogger(cfg.Writer, nil)
	}
	if cfg.File == "" {
		return &AuditLogger{}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return &AuditLogger{}
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return &AuditLogger{}
	}
	return newAuditLogger(f, f)
}

func newAuditLogger(w io.Writer, f *os.File) *AuditLogger {
	return &AuditLogger{
		logger:  zerolog.New(w).With().Timestamp().Logger(),
		enabled: true,
		file:    f,
	}
}

// Enabled reports whether entries are written anywhere.
func (a *AuditLogger) Enabled() bool {
	return a != nil && a.enabled
}

// Log appends entry.
func (a *AuditLogger) Log(ctx context.Context, entry AuditEntry) {
	if !a.Enabled() {
		return
	}

	ev := a.logger.Log().Ctx(ctx).
		Str("trace_id", entry.TraceID).
		Str("command", entry.Command)
	if len(entry.Parameters) > 0 {
		ev = ev.Dict("parameters", zerolog.Dict().Fields(entry.Parameters))
	}
	ev = ev.Bool("success", entry.Success)
	if entry.Declined {
		ev = ev.Bool("declined", true)
	}
	if entry.Error != "" {
		ev = ev.Str("error", entry.Error)
	}
	ev.Int64("duration_ms", entry.DurationMS).Send()
}

// Close closes the audit file. Entries logged afterwards are discarded.
func (a *AuditLogger) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	a.enabled = false
	return err
}

type auditLoggerKey struct{}

// ContextWithAuditLogger stores a in ctx.
func ContextWithAuditLogger(ctx context.Context, a *AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, a)
}

// AuditLoggerFromContext returns the audit logger in ctx, or a disabled one.
func AuditLoggerFromContext(ctx context.Context) *AuditLogger {
	if a, ok := ctx.Value(auditLoggerKey{}).(*AuditLogger); ok && a != nil {
		return a
	}
	return &AuditLogger{}
}
