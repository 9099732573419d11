package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"golang-market-scryper/pkg/logger"
)

var liveLimit int

var scrapeLiveCmd = &cobra.Command{
	Use:   "scrape-live",
	Short: "Ingest one snapshot of the live-trading page",
	Run:   runScrapeLive,
}

func init() {
	scrapeLiveCmd.Flags().IntVar(&liveLimit, "limit", 0, "Limit number of stocks to process (0 = all)")
}

func runScrapeLive(cmd *cobra.Command, args []string) {
	application, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.cleanup()

	report, err := application.ingestion.IngestLiveSnapshot(context.Background(), liveLimit)
	if err != nil {
		application.log.Fatal("Live ingestion failed", logger.ErrorField(err))
	}
	fmt.Println(report.Summary())
}
