package service

import (
	"context"

	"github.com/robfig/cron/v3"

	"golang-market-scryper/internal/scraper/config"
	"golang-market-scryper/pkg/logger"
)

// SchedulerService runs live-snapshot ingestion on a cron schedule.
type SchedulerService interface {
	Start() error
	Stop()
}

type schedulerService struct {
	cfg       *config.Config
	log       *logger.Logger
	ingestion IngestionService
	cron      *cron.Cron
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(cfg *config.Config, log *logger.Logger, ingestion IngestionService) SchedulerService {
	return &schedulerService{
		cfg:       cfg,
		log:       log,
		ingestion: ingestion,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log}))),
	}
}

// cronLogger adapts the service logger to cron.Logger so skipped
// overlapping activations show up in the logs.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, logger.Field("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, logger.ErrorField(err), logger.Field("details", keysAndValues))
}

// Start registers the live-snapshot job and begins the cron loop.
// There is only ever one writer: an activation that fires while the
// previous ingestion is still running is skipped, not run concurrently.
func (s *schedulerService) Start() error {
	schedule := s.cfg.Scraper.Live.CronSchedule
	_, err := s.cron.AddFunc(schedule, func() {
		report, err := s.ingestion.IngestLiveSnapshot(context.Background(), 0)
		if err != nil {
			s.log.Error("scheduled live ingestion failed", logger.ErrorField(err))
			return
		}
		s.log.Info("scheduled live ingestion finished", logger.StringField("result", report.Summary()))
	})
	if err != nil {
		return err
	}

	s.log.Info("scheduler started", logger.StringField("schedule", schedule))
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *schedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
