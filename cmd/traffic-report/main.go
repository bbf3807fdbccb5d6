package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ndestates/google-stats-sub001/internal"
	"github.com/ndestates/google-stats-sub001/internal/core/domain"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
)

const dateLayout = "2006-01-02"

func main() {
	start := flag.String("start", "", "range start, YYYY-MM-DD (required)")
	end := flag.String("end", "", "range end, YYYY-MM-DD (required)")
	xlsx := flag.Bool("xlsx", false, "additionally export the report as an Excel workbook")
	envPath := flag.String("env", "", "path to an alternative .env file")
	flag.Parse()

	dateRange, err := parseRange(*start, *end)
	if err != nil {
		log.Fatalf("Invalid date range: %v", err)
	}

	app, err := internal.NewTrafficReportApp(*envPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	opts := usecases_port.ReportOptions{Range: dateRange, WriteXLSX: *xlsx}
	if err := app.Run(context.Background(), opts); err != nil {
		log.Printf("Traffic report failed: %v", err)
		app.Close()
		os.Exit(1)
	}
}

func parseRange(start, end string) (domain.DateRange, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return domain.DateRange{}, err
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{Start: startDate, End: endDate}, nil
}
