package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
)

// SyncFeedUseCase reconciles the published feed against the stored
// property set: fetch, parse, diff, apply in one transaction.
type SyncFeedUseCase struct {
	fetcher port.FeedFetcherPort
	parser  port.FeedParserPort
	storage port.PropertyStoragePort
	rules   domain.CampaignRules
	now     func() time.Time
}

func NewSyncFeedUseCase(
	fetcher port.FeedFetcherPort,
	parser port.FeedParserPort,
	storage port.PropertyStoragePort,
	rules domain.CampaignRules,
) *SyncFeedUseCase {
	return &SyncFeedUseCase{
		fetcher: fetcher,
		parser:  parser,
		storage: storage,
		rules:   rules,
		now:     time.Now,
	}
}

// Execute runs one reconciliation pass. With opts.DryRun the identical
// ChangeSet is computed and reported, but nothing is written.
func (uc *SyncFeedUseCase) Execute(ctx context.Context, opts usecases_port.SyncOptions) (*domain.SyncReport, error) {
	runID := uuid.New()
	startedAt := uc.now()

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SyncFeed",
		"run_id":   runID.String(),
		"dry_run":  opts.DryRun,
	})
	// Adapters pick the run ID up from the context for their own logs.
	ctx = contextkeys.ContextWithRunID(ctx, runID.String())

	ucLogger.Info("Use case started: synchronizing property feed", nil)

	// 1. An empty table always forces a network fetch, whatever the cache says.
	storedCount, err := uc.storage.Count(ctx)
	if err != nil {
		ucLogger.Error("Failed to count stored properties", err, nil)
		return nil, fmt.Errorf("failed to count stored properties: %w", err)
	}
	forceRefresh := opts.ForceRefresh || storedCount == 0

	payload, provenance, err := uc.fetcher.Fetch(ctx, forceRefresh)
	if err != nil {
		ucLogger.Error("Feed fetch failed", err, nil)
		return nil, fmt.Errorf("feed fetch failed: %w", err)
	}
	ucLogger.Info("Feed payload obtained", port.Fields{
		"provenance": string(provenance),
		"bytes":      len(payload),
	})

	// 2. Parse. Record-level problems are skipped and counted, a broken
	// document aborts the run.
	records, skipped, err := uc.parser.Parse(ctx, payload)
	if err != nil {
		ucLogger.Error("Feed parse failed", err, nil)
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}
	if skipped > 0 {
		ucLogger.Warn("Some feed records were skipped", port.Fields{"skipped": skipped})
	}

	// 3. Annotate each record with its marketing campaign before diffing,
	// so a parish or type change also shows up as an update.
	for i := range records {
		records[i].Campaign = uc.rules.Classify(records[i].Parish, records[i].PropertyType)
	}

	stored, err := uc.storage.LoadByReference(ctx)
	if err != nil {
		ucLogger.Error("Failed to load stored properties", err, nil)
		return nil, fmt.Errorf("failed to load stored properties: %w", err)
	}

	plan := uc.buildPlan(ucLogger, records, stored)

	ucLogger.Info("ChangeSet computed", port.Fields{
		"added":       len(plan.Inserts),
		"updated":     len(plan.Updates),
		"reactivated": len(plan.Reactivates),
		"inactivated": len(plan.InactivatedRefs),
		"skipped":     skipped,
	})

	// 4. Apply everything in one transaction, unless previewing.
	if !opts.DryRun && !plan.IsEmpty() {
		if err := uc.storage.Apply(ctx, plan); err != nil {
			ucLogger.Error("Storage returned an error while applying the sync plan", err, nil)
			return nil, fmt.Errorf("failed to apply sync plan: %w", err)
		}
	}

	report := &domain.SyncReport{
		RunID:      runID,
		Provenance: provenance,
		Changes:    plan.Changes(),
		FeedCount:  len(records),
		Skipped:    skipped,
		DryRun:     opts.DryRun,
		StartedAt:  startedAt,
		Duration:   uc.now().Sub(startedAt),
	}

	ucLogger.Info("Use case finished", port.Fields{"duration": report.Duration.String()})
	return report, nil
}

// buildPlan classifies every feed record into exactly one bucket (or none
// when the stored row is already current) and collects the active stored
// rows that disappeared from the feed.
func (uc *SyncFeedUseCase) buildPlan(logger port.LoggerPort, records []domain.PropertyRecord, stored map[string]domain.StoredProperty) domain.SyncPlan {
	plan := domain.SyncPlan{}

	feedRefs := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := feedRefs[rec.Reference]; dup {
			// The feed occasionally repeats a listing; the first
			// occurrence wins.
			logger.Warn("Duplicate reference in feed, keeping first occurrence", port.Fields{"reference": rec.Reference})
			continue
		}
		feedRefs[rec.Reference] = struct{}{}

		row, exists := stored[rec.Reference]
		switch {
		case !exists:
			rec.IsActive = true
			plan.Inserts = append(plan.Inserts, rec)
		case !row.Record.IsActive:
			rec.IsActive = true
			plan.Reactivates = append(plan.Reactivates, rec)
		case row.Fingerprint != domain.Fingerprint(rec):
			rec.IsActive = true
			plan.Updates = append(plan.Updates, rec)
		}
	}

	for ref, row := range stored {
		if _, inFeed := feedRefs[ref]; inFeed {
			continue
		}
		if row.Record.IsActive {
			plan.InactivatedRefs = append(plan.InactivatedRefs, ref)
		}
	}
	// Map iteration order is random; keep the report stable.
	sort.Strings(plan.InactivatedRefs)

	return plan
}
