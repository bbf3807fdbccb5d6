package usecases_port

import (
	"context"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// SyncOptions controls one reconciliation run.
type SyncOptions struct {
	// DryRun computes and reports the full ChangeSet without writing.
	DryRun bool
	// ForceRefresh bypasses the feed cache regardless of its age.
	ForceRefresh bool
}

type SyncFeedUseCase interface {
	Execute(ctx context.Context, opts SyncOptions) (*domain.SyncReport, error)
}
