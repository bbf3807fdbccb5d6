package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
)

type fakeAnalytics struct {
	rows []domain.TrafficRow
	err  error
}

func (f *fakeAnalytics) RunTrafficReport(_ context.Context, _ domain.DateRange) ([]domain.TrafficRow, error) {
	return f.rows, f.err
}

type fakeAds struct {
	rows []domain.CampaignRow
	err  error
}

func (f *fakeAds) RunCampaignReport(_ context.Context, _ domain.DateRange) ([]domain.CampaignRow, error) {
	return f.rows, f.err
}

type fakeWriter struct {
	csvFiles  map[string][][]string
	xlsxFiles map[string][][]string
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		csvFiles:  make(map[string][][]string),
		xlsxFiles: make(map[string][][]string),
	}
}

func (w *fakeWriter) WriteCSV(filename string, header []string, rows [][]string) (string, error) {
	w.csvFiles[filename] = append([][]string{header}, rows...)
	return "/reports/" + filename, nil
}

func (w *fakeWriter) WriteXLSX(filename, _ string, header []string, rows [][]string) (string, error) {
	w.xlsxFiles[filename] = append([][]string{header}, rows...)
	return "/reports/" + filename, nil
}

func reportRange(t *testing.T) domain.DateRange {
	t.Helper()
	start, err := time.Parse(reportDateLayout, "2026-08-01")
	require.NoError(t, err)
	end, err := time.Parse(reportDateLayout, "2026-08-07")
	require.NoError(t, err)
	return domain.DateRange{Start: start, End: end}
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(reportDateLayout, value)
	require.NoError(t, err)
	return d
}

func TestTrafficReportSummarizesChannels(t *testing.T) {
	analytics := &fakeAnalytics{rows: []domain.TrafficRow{
		{Date: day(t, "2026-08-01"), Channel: "Organic Search", Sessions: 100, TotalUsers: 80, EngagedSessions: 60},
		{Date: day(t, "2026-08-02"), Channel: "Organic Search", Sessions: 50, TotalUsers: 40, EngagedSessions: 30},
		{Date: day(t, "2026-08-01"), Channel: "Paid Search", Sessions: 200, TotalUsers: 150, EngagedSessions: 120},
	}}
	writer := newFakeWriter()
	var out bytes.Buffer

	uc := NewTrafficReportUseCase(analytics, writer, &out)
	report, err := uc.Execute(context.Background(), usecases_port.ReportOptions{Range: reportRange(t)})
	require.NoError(t, err)

	// Channels folded and sorted by sessions descending.
	require.Len(t, report.Channels, 2)
	assert.Equal(t, "Paid Search", report.Channels[0].Channel)
	assert.Equal(t, int64(200), report.Channels[0].Sessions)
	assert.Equal(t, "Organic Search", report.Channels[1].Channel)
	assert.Equal(t, int64(150), report.Channels[1].Sessions)
	assert.Equal(t, int64(120), report.Channels[1].TotalUsers)

	// Both CSV exports carry the dated suffix.
	assert.Contains(t, writer.csvFiles, "ga4-traffic-2026-08-01_2026-08-07.csv")
	assert.Contains(t, writer.csvFiles, "ga4-channels-2026-08-01_2026-08-07.csv")
	assert.Empty(t, writer.xlsxFiles)

	daily := writer.csvFiles["ga4-traffic-2026-08-01_2026-08-07.csv"]
	require.Len(t, daily, 4) // header + 3 rows
	assert.Equal(t, []string{"2026-08-01", "Organic Search", "100", "80", "60"}, daily[1])

	assert.Contains(t, out.String(), "GA4 traffic 2026-08-01 - 2026-08-07")
	assert.Contains(t, out.String(), "Paid Search")
}

func TestTrafficReportWritesXLSXWhenRequested(t *testing.T) {
	analytics := &fakeAnalytics{rows: []domain.TrafficRow{
		{Date: day(t, "2026-08-01"), Channel: "Direct", Sessions: 5, TotalUsers: 5, EngagedSessions: 3},
	}}
	writer := newFakeWriter()

	uc := NewTrafficReportUseCase(analytics, writer, &bytes.Buffer{})
	_, err := uc.Execute(context.Background(), usecases_port.ReportOptions{Range: reportRange(t), WriteXLSX: true})
	require.NoError(t, err)

	assert.Contains(t, writer.xlsxFiles, "ga4-traffic-2026-08-01_2026-08-07.xlsx")
}

func TestTrafficReportPropagatesQueryError(t *testing.T) {
	analytics := &fakeAnalytics{err: assert.AnError}
	uc := NewTrafficReportUseCase(analytics, newFakeWriter(), &bytes.Buffer{})

	_, err := uc.Execute(context.Background(), usecases_port.ReportOptions{Range: reportRange(t)})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCampaignReportAnnotatesActiveListingsAndSorts(t *testing.T) {
	ads := &fakeAds{rows: []domain.CampaignRow{
		{Campaign: "Jersey Property Listings", Impressions: 900, Clicks: 40, Cost: 12.0, Conversions: 2},
		{Campaign: "St Helier Apartments", Impressions: 1500, Clicks: 120, Cost: 45.25, Conversions: 6.5},
	}}

	storage := newFakeStorage()
	rec := feedRecord("A1")
	rec.Parish = "St Helier"
	rec.PropertyType = "Apartment"
	storage.seed(rec, true)
	rec2 := feedRecord("A2")
	rec2.Parish = "St Helier"
	rec2.PropertyType = "Apartment"
	storage.seed(rec2, true)
	inactive := feedRecord("A3")
	inactive.Parish = "St Helier"
	inactive.PropertyType = "Apartment"
	storage.seed(inactive, false)

	writer := newFakeWriter()
	var out bytes.Buffer

	uc := NewCampaignReportUseCase(ads, storage, writer, &out)
	report, err := uc.Execute(context.Background(), usecases_port.ReportOptions{Range: reportRange(t)})
	require.NoError(t, err)

	// Sorted by cost descending, inactive listings not counted.
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "St Helier Apartments", report.Rows[0].Campaign)
	assert.Equal(t, 2, report.Rows[0].ActiveListings)
	assert.Equal(t, "Jersey Property Listings", report.Rows[1].Campaign)
	assert.Equal(t, 0, report.Rows[1].ActiveListings)

	csvRows := writer.csvFiles["ads-campaigns-2026-08-01_2026-08-07.csv"]
	require.Len(t, csvRows, 3)
	assert.Equal(t, []string{"St Helier Apartments", "1500", "120", "45.25", "6.5", "2"}, csvRows[1])

	assert.Contains(t, out.String(), "ACTIVE LISTINGS")
}

func TestCampaignReportPropagatesAdsError(t *testing.T) {
	uc := NewCampaignReportUseCase(&fakeAds{err: assert.AnError}, newFakeStorage(), newFakeWriter(), &bytes.Buffer{})

	_, err := uc.Execute(context.Background(), usecases_port.ReportOptions{Range: reportRange(t)})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
