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

	startDate, err := time.Parse(dateLayout, *start)
	if err != nil {
		log.Fatalf("Invalid --start date: %v", err)
	}
	endDate, err := time.Parse(dateLayout, *end)
	if err != nil {
		log.Fatalf("Invalid --end date: %v", err)
	}

	app, err := internal.NewCampaignReportApp(*envPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	opts := usecases_port.ReportOptions{
		Range:     domain.DateRange{Start: startDate, End: endDate},
		WriteXLSX: *xlsx,
	}
	if err := app.Run(context.Background(), opts); err != nil {
		log.Printf("Campaign report failed: %v", err)
		app.Close()
		os.Exit(1)
	}
}
