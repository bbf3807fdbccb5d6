package usecases_port

import (
	"context"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
)

// ReportOptions controls one reporting run.
type ReportOptions struct {
	Range domain.DateRange
	// WriteXLSX additionally exports the report as an Excel workbook.
	WriteXLSX bool
}

type TrafficReportUseCase interface {
	Execute(ctx context.Context, opts ReportOptions) (*domain.TrafficReport, error)
}

type CampaignReportUseCase interface {
	Execute(ctx context.Context, opts ReportOptions) (*domain.CampaignReport, error)
}
