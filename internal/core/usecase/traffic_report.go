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

const reportDateLayout = "2006-01-02"

// TrafficReportUseCase pulls GA4 traffic for a date range, prints a
// human-readable table and exports dated report files.
type TrafficReportUseCase struct {
	analytics port.AnalyticsQueryPort
	writer    port.ReportWriterPort
	out       io.Writer
}

func NewTrafficReportUseCase(analytics port.AnalyticsQueryPort, writer port.ReportWriterPort, out io.Writer) *TrafficReportUseCase {
	return &TrafficReportUseCase{
		analytics: analytics,
		writer:    writer,
		out:       out,
	}
}

func (uc *TrafficReportUseCase) Execute(ctx context.Context, opts usecases_port.ReportOptions) (*domain.TrafficReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "TrafficReport",
		"start":    opts.Range.Start.Format(reportDateLayout),
		"end":      opts.Range.End.Format(reportDateLayout),
	})

	ucLogger.Info("Use case started: pulling GA4 traffic report", nil)

	rows, err := uc.analytics.RunTrafficReport(ctx, opts.Range)
	if err != nil {
		ucLogger.Error("GA4 query failed", err, nil)
		return nil, fmt.Errorf("GA4 traffic query failed: %w", err)
	}

	report := &domain.TrafficReport{
		Range:    opts.Range,
		Rows:     rows,
		Channels: summarizeChannels(rows),
	}

	uc.printTable(report)

	if err := uc.export(report, opts.WriteXLSX, ucLogger); err != nil {
		return nil, err
	}

	ucLogger.Info("Use case finished", port.Fields{
		"rows":     len(report.Rows),
		"channels": len(report.Channels),
	})
	return report, nil
}

// summarizeChannels folds the per-date rows into one row per channel,
// sorted by sessions descending.
func summarizeChannels(rows []domain.TrafficRow) []domain.ChannelSummary {
	byChannel := make(map[string]*domain.ChannelSummary)
	for _, row := range rows {
		summary, ok := byChannel[row.Channel]
		if !ok {
			summary = &domain.ChannelSummary{Channel: row.Channel}
			byChannel[row.Channel] = summary
		}
		summary.Sessions += row.Sessions
		summary.TotalUsers += row.TotalUsers
		summary.EngagedSessions += row.EngagedSessions
	}

	summaries := make([]domain.ChannelSummary, 0, len(byChannel))
	for _, s := range byChannel {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Sessions != summaries[j].Sessions {
			return summaries[i].Sessions > summaries[j].Sessions
		}
		return summaries[i].Channel < summaries[j].Channel
	})
	return summaries
}

func (uc *TrafficReportUseCase) printTable(report *domain.TrafficReport) {
	fmt.Fprintf(uc.out, "GA4 traffic %s - %s\n\n",
		report.Range.Start.Format(reportDateLayout),
		report.Range.End.Format(reportDateLayout))

	w := tabwriter.NewWriter(uc.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tSESSIONS\tUSERS\tENGAGED")
	for _, s := range report.Channels {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Channel, s.Sessions, s.TotalUsers, s.EngagedSessions)
	}
	w.Flush()
}

func (uc *TrafficReportUseCase) export(report *domain.TrafficReport, writeXLSX bool, logger port.LoggerPort) error {
	suffix := fmt.Sprintf("%s_%s",
		report.Range.Start.Format(reportDateLayout),
		report.Range.End.Format(reportDateLayout))

	dailyHeader := []string{"date", "channel", "sessions", "total_users", "engaged_sessions"}
	dailyRows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		dailyRows = append(dailyRows, []string{
			row.Date.Format(reportDateLayout),
			row.Channel,
			strconv.FormatInt(row.Sessions, 10),
			strconv.FormatInt(row.TotalUsers, 10),
			strconv.FormatInt(row.EngagedSessions, 10),
		})
	}

	channelHeader := []string{"channel", "sessions", "total_users", "engaged_sessions"}
	channelRows := make([][]string, 0, len(report.Channels))
	for _, s := range report.Channels {
		channelRows = append(channelRows, []string{
			s.Channel,
			strconv.FormatInt(s.Sessions, 10),
			strconv.FormatInt(s.TotalUsers, 10),
			strconv.FormatInt(s.EngagedSessions, 10),
		})
	}

	dailyPath, err := uc.writer.WriteCSV("ga4-traffic-"+suffix+".csv", dailyHeader, dailyRows)
	if err != nil {
		logger.Error("Failed to write daily traffic CSV", err, nil)
		return fmt.Errorf("failed to write daily traffic CSV: %w", err)
	}
	channelPath, err := uc.writer.WriteCSV("ga4-channels-"+suffix+".csv", channelHeader, channelRows)
	if err != nil {
		logger.Error("Failed to write channel summary CSV", err, nil)
		return fmt.Errorf("failed to write channel summary CSV: %w", err)
	}
	logger.Info("CSV reports written", port.Fields{"daily": dailyPath, "channels": channelPath})

	if writeXLSX {
		xlsxPath, err := uc.writer.WriteXLSX("ga4-traffic-"+suffix+".xlsx", "Traffic", dailyHeader, dailyRows)
		if err != nil {
			logger.Error("Failed to write traffic XLSX", err, nil)
			return fmt.Errorf("failed to write traffic XLSX: %w", err)
		}
		logger.Info("XLSX report written", port.Fields{"path": xlsxPath})
	}

	return nil
}
