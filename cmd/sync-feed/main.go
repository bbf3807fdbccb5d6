package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/ndestates/google-stats-sub001/internal"
	"github.com/ndestates/google-stats-sub001/internal/core/port/usecases_port"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "compute and print the change summary without writing anything")
	forceRefresh := flag.Bool("force-refresh", false, "bypass the feed cache and always fetch from the network")
	envPath := flag.String("env", "", "path to an alternative .env file")
	flag.Parse()

	app, err := internal.NewSyncApp(*envPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	opts := usecases_port.SyncOptions{
		DryRun:       *dryRun,
		ForceRefresh: *forceRefresh,
	}
	if err := app.Run(context.Background(), opts); err != nil {
		log.Printf("Sync failed: %v", err)
		app.Close()
		os.Exit(1)
	}
}
