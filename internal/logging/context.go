package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for run identifiers.
	FieldRunID = "run_id"
	// FieldSplit is the standardized structured logging key for corpus split names.
	FieldSplit = "split"
	// FieldSpeaker is the standardized structured logging key for speaker identifiers.
	FieldSpeaker = "speaker"
	// FieldPath is the standardized structured logging key for filesystem paths.
	FieldPath = "path"
	// FieldEventType classifies a log line for filtering (e.g. "history_unavailable").
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	splitKey contextKey = "split"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSplit annotates context with the split currently being processed.
func WithSplit(ctx context.Context, split string) context.Context {
	if split == "" {
		return ctx
	}
	return context.WithValue(ctx, splitKey, split)
}

// SplitFromContext returns the split name if present.
func SplitFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(splitKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithContext returns logger annotated with the run ID and split carried by
// ctx, if any.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var args []any
	if id, ok := RunIDFromContext(ctx); ok {
		args = append(args, String(FieldRunID, id))
	}
	if split, ok := SplitFromContext(ctx); ok {
		args = append(args, String(FieldSplit, split))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
