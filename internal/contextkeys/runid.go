package contextkeys

import (
	"context"
)

type runIDKeyType struct{}

var runIDKey = runIDKeyType{}

// ContextWithRunID places the run identifier into the context.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run identifier from the context.
// Returns an empty string when no run ID was set.
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDKey).(string); ok {
		return runID
	}
	return ""
}
