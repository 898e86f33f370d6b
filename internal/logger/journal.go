package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// JournalAction is the type of cache mutation being recorded.
type JournalAction string

const (
	JournalActionDownload JournalAction = "download"
	JournalActionUpdate   JournalAction = "update"
	JournalActionClear    JournalAction = "clear"
)

// JournalOutcome is the result of a recorded run.
type JournalOutcome string

const (
	JournalOutcomeSuccess JournalOutcome = "success"
	JournalOutcomePartial JournalOutcome = "partial"
	JournalOutcomeFailure JournalOutcome = "failure"
)

// JournalEntry is one cache mutation record.
type JournalEntry struct {
	Action     JournalAction  `json:"action"`
	Actor      string         `json:"actor"`
	RunID      string         `json:"run_id,omitempty"`
	Release    string         `json:"release,omitempty"`
	Total      int            `json:"total"`
	Downloaded int            `json:"downloaded"`
	Failed     int            `json:"failed"`
	Outcome    JournalOutcome `json:"outcome"`
	Duration   time.Duration  `json:"duration"`
	Timestamp  time.Time      `json:"timestamp"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Journal writes cache mutation records to a dedicated rotating file,
// always as JSON lines.
type Journal struct {
	logger *slog.Logger
	closer *lumberjack.Logger
}

// NewJournal creates a journal at the given path.
func NewJournal(path string, maxAgeDays int) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	if maxAgeDays <= 0 {
		maxAgeDays = 365
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // 100 MB
		MaxBackups: 0,   // Keep all backups within MaxAge
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	handler := slog.NewJSONHandler(lj, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &Journal{
		logger: slog.New(handler),
		closer: lj,
	}, nil
}

// Record writes one journal entry. A nil journal drops the entry.
func (j *Journal) Record(ctx context.Context, entry JournalEntry) {
	if j == nil {
		return
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// Pick up actor and request id from the command context when unset.
	if cc := CommandContextFrom(ctx); cc != nil {
		if entry.Actor == "" {
			entry.Actor = cc.User
		}
		if entry.RequestID == "" {
			entry.RequestID = cc.RequestID
		}
	}

	attrs := []slog.Attr{
		slog.String("action", string(entry.Action)),
		slog.String("actor", entry.Actor),
		slog.String("outcome", string(entry.Outcome)),
		slog.Int("total", entry.Total),
		slog.Int("downloaded", entry.Downloaded),
		slog.Int("failed", entry.Failed),
		slog.Duration("duration", entry.Duration),
		slog.Time("timestamp", entry.Timestamp),
	}
	if entry.RunID != "" {
		attrs = append(attrs, slog.String("run_id", entry.RunID))
	}
	if entry.Release != "" {
		attrs = append(attrs, slog.String("release", entry.Release))
	}
	if entry.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", entry.RequestID))
	}

	j.logger.LogAttrs(ctx, slog.LevelInfo, "journal", attrs...)
}

// WithOutcome derives the outcome from the entry's counters.
func (e JournalEntry) WithOutcome() JournalEntry {
	switch {
	case e.Failed == 0:
		e.Outcome = JournalOutcomeSuccess
	case e.Downloaded > 0:
		e.Outcome = JournalOutcomePartial
	default:
		e.Outcome = JournalOutcomeFailure
	}
	return e
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j != nil && j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
