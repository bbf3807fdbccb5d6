package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewFileWriterAdapter(dir)
	require.NoError(t, err)

	header := []string{"date", "channel", "sessions"}
	rows := [][]string{
		{"2026-08-01", "Organic Search", "120"},
		{"2026-08-01", "Paid Search", "45"},
	}

	path, err := writer.WriteCSV("ga4-traffic-2026-08-01_2026-08-07.csv", header, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ga4-traffic-2026-08-01_2026-08-07.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, header, got[0])
	assert.Equal(t, rows[0], got[1])
	assert.Equal(t, rows[1], got[2])
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewFileWriterAdapter(dir)
	require.NoError(t, err)

	header := []string{"campaign", "clicks", "cost"}
	rows := [][]string{
		{"St Helier Apartments", "120", "45.25"},
	}

	path, err := writer.WriteXLSX("ads-campaigns.xlsx", "Campaigns", header, rows)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), "Sheet1")

	got, err := f.GetRows("Campaigns")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, header, got[0])
	assert.Equal(t, rows[0], got[1])
}

func TestWriterCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")

	_, err := NewFileWriterAdapter(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
