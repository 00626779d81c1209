package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	stageKey     contextKey = "stage"
	utteranceKey contextKey = "utterance"
)

// WithRunID annotates context with the correlation identifier of one CLI run.
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

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithUtterance annotates context with the zero-based utterance index.
func WithUtterance(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, utteranceKey, index)
}

// UtteranceFromContext extracts the utterance index if present.
func UtteranceFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(utteranceKey).(int)
	return v, ok
}
