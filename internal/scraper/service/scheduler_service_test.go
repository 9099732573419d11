package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-market-scryper/internal/scraper/dto"
)

// slowIngestion holds each run long enough to span several cron ticks and
// records how many runs overlapped.
type slowIngestion struct {
	mu            sync.Mutex
	hold          time.Duration
	runs          int
	running       int
	maxConcurrent int
}

func (s *slowIngestion) IngestLiveSnapshot(_ context.Context, _ int) (*dto.IngestionReport, error) {
	s.mu.Lock()
	s.runs++
	s.running++
	if s.running > s.maxConcurrent {
		s.maxConcurrent = s.running
	}
	s.mu.Unlock()

	time.Sleep(s.hold)

	s.mu.Lock()
	s.running--
	s.mu.Unlock()
	return &dto.IngestionReport{Source: "live"}, nil
}

func (s *slowIngestion) IngestHistorical(_ context.Context, symbol string, _ int, _ bool) (*dto.IngestionReport, error) {
	return &dto.IngestionReport{Source: "historical", Symbol: symbol}, nil
}

func TestSchedulerNeverOverlapsRuns(t *testing.T) {
	cfg := testConfig("http://unused.test")
	// cron delays below one second are rounded up, so the test works in
	// whole-second ticks.
	cfg.Scraper.Live.CronSchedule = "@every 1s"

	ingestion := &slowIngestion{hold: 1200 * time.Millisecond}
	scheduler := NewSchedulerService(cfg, testLogger(t), ingestion)

	require.NoError(t, scheduler.Start())
	time.Sleep(3300 * time.Millisecond)
	scheduler.Stop()

	ingestion.mu.Lock()
	defer ingestion.mu.Unlock()
	assert.GreaterOrEqual(t, ingestion.runs, 2, "scheduler should keep firing after a long run")
	assert.Equal(t, 1, ingestion.maxConcurrent, "a tick that fires mid-run must be skipped")
	assert.Equal(t, 0, ingestion.running, "Stop must wait for the running job")
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	cfg := testConfig("http://unused.test")
	cfg.Scraper.Live.CronSchedule = "not a schedule"

	scheduler := NewSchedulerService(cfg, testLogger(t), &slowIngestion{})
	assert.Error(t, scheduler.Start())
}
