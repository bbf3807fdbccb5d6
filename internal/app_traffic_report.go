package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/fluent/fluent-logger-golang/fluent"

	"github.com/ndestates/google-stats-sub001/internal/adapters/googleapis"
	report_adapter "github.com/ndestates/google-stats-sub001/internal/adapters/report"
	"github.com/ndestates/google-stats-sub001/internal/configs"
	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
	"github.com/ndestates/google-stats-sub001/internal/core/usecase"
)

// TrafficReportApp wires the GA4 traffic report pipeline together.
type TrafficReportApp struct {
	config       *configs.AppConfig
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	reportUseCase usecases_port.TrafficReportUseCase
}

func NewTrafficReportApp(envPath string) (*TrafficReportApp, error) {
	appConfig, err := loadConfig(envPath)
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	if err := appConfig.ValidateTrafficReport(); err != nil {
		return nil, err
	}

	baseLogger, fluentClient, err := newLoggerSystem(appConfig)
	if err != nil {
		return nil, err
	}

	ga4Client, err := googleapis.NewGA4Client(googleapis.GA4Config{
		BaseURL:     appConfig.GA4.BaseURL,
		PropertyID:  appConfig.GA4.PropertyID,
		AccessToken: appConfig.GA4.AccessToken,
	})
	if err != nil {
		return nil, err
	}

	writer, err := report_adapter.NewFileWriterAdapter(appConfig.Reports.OutputDir)
	if err != nil {
		return nil, err
	}

	return &TrafficReportApp{
		config:        appConfig,
		fluentClient:  fluentClient,
		logger:        baseLogger,
		reportUseCase: usecase.NewTrafficReportUseCase(ga4Client, writer, os.Stdout),
	}, nil
}

func (a *TrafficReportApp) Run(ctx context.Context, opts usecases_port.ReportOptions) error {
	ctx = contextkeys.ContextWithLogger(ctx, a.logger)
	_, err := a.reportUseCase.Execute(ctx, opts)
	return err
}

func (a *TrafficReportApp) Close() {
	if a.fluentClient != nil {
		a.fluentClient.Close()
	}
}
