package logging

import (
	"log/slog"
	"time"
)

// Attr aliases slog.Attr so callers need not import log/slog for fields.
type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

// Error renders err under the "error" key. A nil error is logged as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// NewNop returns a logger that drops every record.
func NewNop() *slog.Logger {
	return slog.New(discardHandler{})
}

// NewComponentLogger tags every record from the returned logger with
// component. A nil logger yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// warnDefaults fill the operator-facing fields of a warning when the caller
// did not provide them.
var warnDefaults = []struct {
	key   string
	value string
}{
	{FieldErrorHint, "see the log file for details"},
	{FieldImpact, "conversion output is unaffected"},
}

// WarnWithContext logs a classified warning. event_type is always set;
// error_hint and impact fall back to generic values when missing.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	present := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		present[a.Key] = true
	}
	args := make([]any, 0, len(attrs)+len(warnDefaults)+1)
	if !present[FieldEventType] {
		args = append(args, String(FieldEventType, eventType))
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	for _, d := range warnDefaults {
		if !present[d.key] {
			args = append(args, String(d.key, d.value))
		}
	}
	logger.Warn(msg, args...)
}
