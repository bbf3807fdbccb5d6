package port

// ReportWriterPort writes shaped report tables to files in the configured
// output directory. Both methods return the full path of the written file.
type ReportWriterPort interface {
	WriteCSV(filename string, header []string, rows [][]string) (string, error)
	WriteXLSX(filename, sheet string, header []string, rows [][]string) (string, error)
}
