package logger

import (
	"context"
	"log/slog"
	"strings"
)

// redactedPlaceholder replaces the values of sensitive attributes.
const redactedPlaceholder = "[REDACTED]"

// RedactingHandler scrubs the values of sensitive keys before records
// reach the wrapped handler. A key is sensitive when it contains any of
// the configured field names, compared case-insensitively.
type RedactingHandler struct {
	next   slog.Handler
	fields []string
}

// NewRedactingHandler wraps next with redaction for the given field names.
func NewRedactingHandler(next slog.Handler, fields []string) *RedactingHandler {
	lowered := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			lowered = append(lowered, f)
		}
	}
	return &RedactingHandler{next: next, fields: lowered}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler. The record is rebuilt with scrubbed
// attributes; the original is left untouched.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	scrubbed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		scrubbed.AddAttrs(h.scrub(a))
		return true
	})
	return h.next.Handle(ctx, scrubbed)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = h.scrub(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(scrubbed), fields: h.fields}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name), fields: h.fields}
}

// scrub replaces the value of a sensitive attribute and recurses into
// groups.
func (h *RedactingHandler) scrub(a slog.Attr) slog.Attr {
	if h.sensitive(a.Key) {
		return slog.String(a.Key, redactedPlaceholder)
	}
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		scrubbed := make([]any, 0, len(members))
		for _, m := range members {
			scrubbed = append(scrubbed, h.scrub(m))
		}
		return slog.Group(a.Key, scrubbed...)
	}
	return a
}

func (h *RedactingHandler) sensitive(key string) bool {
	key = strings.ToLower(key)
	for _, f := range h.fields {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}
