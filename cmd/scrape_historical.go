package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"golang-market-scryper/pkg/logger"
)

var (
	maxPages int
	headless bool
)

var scrapeHistoricalCmd = &cobra.Command{
	Use:   "scrape-historical SYMBOL",
	Short: "Backfill daily prices for a stock symbol",
	Args:  cobra.ExactArgs(1),
	Run:   runScrapeHistorical,
}

func init() {
	scrapeHistoricalCmd.Flags().IntVar(&maxPages, "max-pages", 60, "Maximum pages to scrape")
	scrapeHistoricalCmd.Flags().BoolVar(&headless, "headless", false, "Run the browser in headless mode")
}

func runScrapeHistorical(cmd *cobra.Command, args []string) {
	symbol := strings.ToUpper(args[0])

	application, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.cleanup()

	report, err := application.ingestion.IngestHistorical(context.Background(), symbol, maxPages, headless)
	if err != nil {
		application.log.Fatal("Historical ingestion failed",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
	}
	fmt.Println(report.Summary())
}
