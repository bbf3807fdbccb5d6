package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/ndestates/google-stats-sub001/internal/contextkeys"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
)

// CampaignReportUseCase pulls Google Ads campaign metrics for a date range
// and cross-references each campaign against the number of active stored
// listings carrying the same campaign label.
type CampaignReportUseCase struct {
	ads     port.AdsQueryPort
	storage port.PropertyStoragePort
	writer  port.ReportWriterPort
	out     io.Writer
}

func NewCampaignReportUseCase(ads port.AdsQueryPort, storage port.PropertyStoragePort, writer port.ReportWriterPort, out io.Writer) *CampaignReportUseCase {
	return &CampaignReportUseCase{
		ads:     ads,
		storage: storage,
		writer:  writer,
		out:     out,
	}
}

func (uc *CampaignReportUseCase) Execute(ctx context.Context, opts usecases_port.ReportOptions) (*domain.CampaignReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CampaignReport",
		"start":    opts.Range.Start.Format(reportDateLayout),
		"end":      opts.Range.End.Format(reportDateLayout),
	})

	ucLogger.Info("Use case started: pulling Ads campaign report", nil)

	rows, err := uc.ads.RunCampaignReport(ctx, opts.Range)
	if err != nil {
		ucLogger.Error("Ads query failed", err, nil)
		return nil, fmt.Errorf("Ads campaign query failed: %w", err)
	}

	counts, err := uc.storage.ActiveCampaignCounts(ctx)
	if err != nil {
		ucLogger.Error("Failed to load active listing counts", err, nil)
		return nil, fmt.Errorf("failed to load active listing counts: %w", err)
	}
	for i := range rows {
		rows[i].ActiveListings = counts[rows[i].Campaign]
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Cost != rows[j].Cost {
			return rows[i].Cost > rows[j].Cost
		}
		return rows[i].Campaign < rows[j].Campaign
	})

	report := &domain.CampaignReport{Range: opts.Range, Rows: rows}

	uc.printTable(report)

	if err := uc.export(report, opts.WriteXLSX, ucLogger); err != nil {
		return nil, err
	}

	ucLogger.Info("Use case finished", port.Fields{"campaigns": len(report.Rows)})
	return report, nil
}

func (uc *CampaignReportUseCase) printTable(report *domain.CampaignReport) {
	fmt.Fprintf(uc.out, "Google Ads campaigns %s - %s\n\n",
		report.Range.Start.Format(reportDateLayout),
		report.Range.End.Format(reportDateLayout))

	w := tabwriter.NewWriter(uc.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CAMPAIGN\tIMPRESSIONS\tCLICKS\tCOST\tCONVERSIONS\tACTIVE LISTINGS")
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.1f\t%d\n",
			row.Campaign, row.Impressions, row.Clicks, row.Cost, row.Conversions, row.ActiveListings)
	}
	w.Flush()
}

func (uc *CampaignReportUseCase) export(report *domain.CampaignReport, writeXLSX bool, logger port.LoggerPort) error {
	suffix := fmt.Sprintf("%s_%s",
		report.Range.Start.Format(reportDateLayout),
		report.Range.End.Format(reportDateLayout))

	header := []string{"campaign", "impressions", "clicks", "cost", "conversions", "active_listings"}
	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, []string{
			row.Campaign,
			strconv.FormatInt(row.Impressions, 10),
			strconv.FormatInt(row.Clicks, 10),
			strconv.FormatFloat(row.Cost, 'f', 2, 64),
			strconv.FormatFloat(row.Conversions, 'f', 1, 64),
			strconv.Itoa(row.ActiveListings),
		})
	}

	csvPath, err := uc.writer.WriteCSV("ads-campaigns-"+suffix+".csv", header, rows)
	if err != nil {
		logger.Error("Failed to write campaign CSV", err, nil)
		return fmt.Errorf("failed to write campaign CSV: %w", err)
	}
	logger.Info("CSV report written", port.Fields{"path": csvPath})

	if writeXLSX {
		xlsxPath, err := uc.writer.WriteXLSX("ads-campaigns-"+suffix+".xlsx", "Campaigns", header, rows)
		if err != nil {
			logger.Error("Failed to write campaign XLSX", err, nil)
			return fmt.Errorf("failed to write campaign XLSX: %w", err)
		}
		logger.Info("XLSX report written", port.Fields{"path": xlsxPath})
	}

	return nil
}
