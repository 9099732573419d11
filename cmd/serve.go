package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golang-market-scryper/internal/scraper/service"
	"golang-market-scryper/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run live-snapshot ingestion on a cron schedule",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	application, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.cleanup()

	scheduler := service.NewSchedulerService(application.cfg, application.log, application.ingestion)
	if err := scheduler.Start(); err != nil {
		application.log.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}

	application.log.Info("Scraper service started. Waiting for scheduled runs...",
		logger.StringField("name", application.cfg.App.Name),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	application.log.Info("Shutting down scraper service...")
	scheduler.Stop()
	application.log.Info("Scraper service stopped.")
}
