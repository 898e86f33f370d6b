package logger

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

// ConsoleOptions configures the styled console handler.
type ConsoleOptions struct {
	// Level is the minimum level to emit. Nil means info.
	Level slog.Leveler

	// NoColor renders plain level badges without ANSI styling.
	NoColor bool

	// TimeFormat overrides the timestamp layout. Empty means "15:04:05".
	TimeFormat string
}

// NewConsoleHandler returns a slog.Handler that renders records through
// charmbracelet/log for human-readable terminal output.
func NewConsoleHandler(w io.Writer, opts *ConsoleOptions) slog.Handler {
	if opts == nil {
		opts = &ConsoleOptions{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = "15:04:05"
	}

	cl := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           toCharmLevel(level.Level()),
	})
	if opts.NoColor {
		cl.SetStyles(plainStyles())
	} else {
		cl.SetStyles(consoleStyles())
	}

	return &consoleHandler{cl: cl, level: level}
}

// consoleHandler adapts charmbracelet/log to the slog.Handler contract.
// Clones share the underlying charm logger; bound attributes and the
// group path live on the handler itself.
type consoleHandler struct {
	cl     *charmlog.Logger
	level  slog.Leveler
	prefix string
	bound  []any
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	kvs := make([]any, 0, len(h.bound)+r.NumAttrs()*2)
	kvs = append(kvs, h.bound...)
	r.Attrs(func(a slog.Attr) bool {
		kvs = h.appendAttr(kvs, a)
		return true
	})

	h.cl.Log(toCharmLevel(r.Level), r.Message, kvs...)
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.bound = append(clone.bound[:len(clone.bound):len(clone.bound)], flatten(h.prefix, attrs)...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = joinKey(h.prefix, name)
	return &clone
}

// appendAttr appends one attribute as key-value pair(s), flattening
// groups into dotted keys.
func (h *consoleHandler) appendAttr(kvs []any, a slog.Attr) []any {
	return append(kvs, flatten(h.prefix, []slog.Attr{a})...)
}

// flatten resolves attributes into alternating key-value pairs with
// dotted group prefixes.
func flatten(prefix string, attrs []slog.Attr) []any {
	var kvs []any
	for _, a := range attrs {
		if a.Equal(slog.Attr{}) {
			continue
		}
		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			kvs = append(kvs, flatten(joinKey(prefix, a.Key), v.Group())...)
			continue
		}
		kvs = append(kvs, joinKey(prefix, a.Key), displayValue(v))
	}
	return kvs
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}

// displayValue renders a resolved slog.Value for the console.
func displayValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.Any()
}

func toCharmLevel(level slog.Level) charmlog.Level {
	switch {
	case level >= slog.LevelError:
		return charmlog.ErrorLevel
	case level >= slog.LevelWarn:
		return charmlog.WarnLevel
	case level >= slog.LevelInfo:
		return charmlog.InfoLevel
	}
	return charmlog.DebugLevel
}

// consoleStyles is the fdk terminal palette: compact level badges,
// dimmed timestamps, tinted keys.
func consoleStyles() *charmlog.Styles {
	badge := func(label, color string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(label).
			Bold(true).
			Foreground(lipgloss.Color(color))
	}

	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = badge("DBG", "245")
	styles.Levels[charmlog.InfoLevel] = badge("INF", "39")
	styles.Levels[charmlog.WarnLevel] = badge("WRN", "214")
	styles.Levels[charmlog.ErrorLevel] = badge("ERR", "196")
	styles.Levels[charmlog.FatalLevel] = badge("FTL", "201")
	styles.Timestamp = lipgloss.NewStyle().Faint(true)
	styles.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	styles.Separator = lipgloss.NewStyle().Faint(true)
	return styles
}

// plainStyles keeps the badge labels but no ANSI styling.
func plainStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	for level, label := range map[charmlog.Level]string{
		charmlog.DebugLevel: "DBG",
		charmlog.InfoLevel:  "INF",
		charmlog.WarnLevel:  "WRN",
		charmlog.ErrorLevel: "ERR",
		charmlog.FatalLevel: "FTL",
	} {
		styles.Levels[level] = lipgloss.NewStyle().SetString(label)
	}
	styles.Timestamp = lipgloss.NewStyle()
	styles.Key = lipgloss.NewStyle()
	styles.Value = lipgloss.NewStyle()
	styles.Separator = lipgloss.NewStyle()
	styles.Message = lipgloss.NewStyle()
	return styles
}
