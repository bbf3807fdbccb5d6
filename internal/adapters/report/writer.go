package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// FileWriterAdapter writes report tables into the configured output
// directory as CSV files or Excel workbooks.
type FileWriterAdapter struct {
	outputDir string
}

func NewFileWriterAdapter(outputDir string) (*FileWriterAdapter, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", outputDir, err)
	}
	return &FileWriterAdapter{outputDir: outputDir}, nil
}

// WriteCSV writes the header and rows into outputDir/filename and returns
// the full path.
func (w *FileWriterAdapter) WriteCSV(filename string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(w.outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header to %s: %w", path, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write CSV rows to %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV %s: %w", path, err)
	}

	return path, nil
}

// WriteXLSX writes the table into a single-sheet workbook and returns the
// full path.
func (w *FileWriterAdapter) WriteXLSX(filename, sheet string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(w.outputDir, filename)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	f.SetActiveSheet(index)
	// Drop the default sheet when it is not the one we write to.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	writeRow := func(rowIdx int, values []string) error {
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return "", fmt.Errorf("failed to write XLSX header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return "", fmt.Errorf("failed to write XLSX row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}

	return path, nil
}
