package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndestates/google-stats-sub001/internal/adapters/googleapis"
	postgres_adapter "github.com/ndestates/google-stats-sub001/internal/adapters/postgres"
	report_adapter "github.com/ndestates/google-stats-sub001/internal/adapters/report"
	"github.com/ndestates/google-stats-sub001/internal/configs"
	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
	"github.com/ndestates/google-stats-sub001/internal/core/usecase"
	"github.com/ndestates/google-stats-sub001/pkg/postgres"
)

// CampaignReportApp wires the Ads campaign report pipeline together. It
// needs the database too: each campaign row is annotated with the count
// of active listings carrying the same campaign label.
type CampaignReportApp struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	reportUseCase usecases_port.CampaignReportUseCase
}

func NewCampaignReportApp(envPath string) (*CampaignReportApp, error) {
	appConfig, err := loadConfig(envPath)
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	if err := appConfig.ValidateCampaignReport(); err != nil {
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

	propertyStorage, err := postgres_adapter.NewPropertyStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	adsClient, err := googleapis.NewAdsClient(googleapis.AdsConfig{
		BaseURL:        appConfig.Ads.BaseURL,
		CustomerID:     appConfig.Ads.CustomerID,
		DeveloperToken: appConfig.Ads.DeveloperToken,
		AccessToken:    appConfig.Ads.AccessToken,
	})
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	writer, err := report_adapter.NewFileWriterAdapter(appConfig.Reports.OutputDir)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	return &CampaignReportApp{
		config:        appConfig,
		dbPool:        dbPool,
		fluentClient:  fluentClient,
		logger:        baseLogger,
		reportUseCase: usecase.NewCampaignReportUseCase(adsClient, propertyStorage, writer, os.Stdout),
	}, nil
}

func (a *CampaignReportApp) Run(ctx context.Context, opts usecases_port.ReportOptions) error {
	ctx = contextkeys.ContextWithLogger(ctx, a.logger)
	_, err := a.reportUseCase.Execute(ctx, opts)
	return err
}

func (a *CampaignReportApp) Close() {
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		a.fluentClient.Close()
	}
}
