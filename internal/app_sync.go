package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndestates/google-stats-sub001/internal/adapters/feedfetcher"
	postgres_adapter "github.com/ndestates/google-stats-sub001/internal/adapters/postgres"
	"github.com/ndestates/google-stats-sub001/internal/configs"
	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/contracts"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
	"github.com/ndestates/google-stats-sub001/internal/core/usecase"
	"github.com/ndestates/google-stats-sub001/pkg/postgres"
)

// SyncApp wires the feed synchronization pipeline together. This is the
// composition root: every dependency is created and connected here.
type SyncApp struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	syncUseCase usecases_port.SyncFeedUseCase
}

func NewSyncApp(envPath string) (*SyncApp, error) {
	appConfig, err := loadConfig(envPath)
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	if err := appConfig.ValidateSync(); err != nil {
		return nil, err
	}

	baseLogger, fluentClient, err := newLoggerSystem(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	feedCache, err := postgres_adapter.NewFeedCacheAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	propertyStorage, err := postgres_adapter.NewPropertyStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	fetcher, err := feedfetcher.NewFeedFetcherAdapter(feedfetcher.Config{
		FeedURL:     appConfig.Feed.URL,
		ReuseWindow: appConfig.Feed.ReuseWindow,
		Timeout:     appConfig.Feed.Timeout,
	}, feedCache)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	rules, err := contracts.LoadCampaignRules(appConfig.CampaignRules.SchemaPath, appConfig.CampaignRules.RulesPath)
	if err != nil {
		appLogger.Error("Failed to load campaign rules", err, nil)
		dbPool.Close()
		return nil, err
	}

	syncUseCase := usecase.NewSyncFeedUseCase(
		fetcher,
		feedfetcher.NewFeedParserAdapter(),
		propertyStorage,
		rules,
	)

	appLogger.Info("Sync application initialized", port.Fields{
		"feed_url":     appConfig.Feed.URL,
		"reuse_window": appConfig.Feed.ReuseWindow.String(),
	})

	return &SyncApp{
		config:       appConfig,
		dbPool:       dbPool,
		fluentClient: fluentClient,
		logger:       baseLogger,
		syncUseCase:  syncUseCase,
	}, nil
}

// Run executes one sync pass and prints the change summary.
func (a *SyncApp) Run(ctx context.Context, opts usecases_port.SyncOptions) error {
	ctx = contextkeys.ContextWithLogger(ctx, a.logger)

	report, err := a.syncUseCase.Execute(ctx, opts)
	if err != nil {
		return err
	}

	printSyncReport(report)
	return nil
}

// Close releases the database pool and the fluentd connection.
func (a *SyncApp) Close() {
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		a.fluentClient.Close()
	}
}

func printSyncReport(report *domain.SyncReport) {
	mode := "applied"
	if report.DryRun {
		mode = "dry-run, nothing written"
	}

	fmt.Printf("Sync run %s (%s)\n", report.RunID, mode)
	fmt.Printf("  feed records:    %d (skipped %d, provenance %s)\n",
		report.FeedCount, report.Skipped, report.Provenance)
	printBucket("added", report.Changes.Added)
	printBucket("updated", report.Changes.Updated)
	printBucket("reactivated", report.Changes.Reactivated)
	printBucket("marked inactive", report.Changes.Inactivated)
	fmt.Printf("  duration:        %s\n", report.Duration.Round(1e6))
}

func printBucket(name string, refs []string) {
	fmt.Printf("  %-16s %d", name+":", len(refs))
	if len(refs) > 0 {
		fmt.Printf("  [%s]", strings.Join(refs, ", "))
	}
	fmt.Println()
}

func loadConfig(envPath string) (*configs.AppConfig, error) {
	if envPath != "" {
		return configs.LoadConfig(envPath)
	}
	return configs.LoadConfig()
}
