package config

import (
	"time"

	"golang-market-scryper/pkg/config"
)

// Live holds configuration for the live-trading page fetcher.
type Live struct {
	URL                string        `mapstructure:"url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	UserAgent          string        `mapstructure:"user_agent"`
	InsecureSkipVerify *bool         `mapstructure:"insecure_skip_verify"`
	PolitenessInterval time.Duration `mapstructure:"politeness_interval"`
	CronSchedule       string        `mapstructure:"cron_schedule"`
	TickStream         string        `mapstructure:"tick_stream"`
}

// SkipTLSVerify reports whether certificate verification is disabled for the
// live source. Unset means disabled: the source serves a broken chain.
func (l Live) SkipTLSVerify() bool {
	return l.InsecureSkipVerify == nil || *l.InsecureSkipVerify
}

// Historical holds configuration for the browser-driven price-history scrape.
type Historical struct {
	BaseURL      string        `mapstructure:"base_url"`
	WaitTimeout  time.Duration `mapstructure:"wait_timeout"`
	TableTimeout time.Duration `mapstructure:"table_timeout"`
	AlertTimeout time.Duration `mapstructure:"alert_timeout"`
	SearchSettle time.Duration `mapstructure:"search_settle"`
	PageSettle   time.Duration `mapstructure:"page_settle"`
	MaxPages     int           `mapstructure:"max_pages"`
}

// Scraper groups the two source configurations.
type Scraper struct {
	Live       Live       `mapstructure:"live"`
	Historical Historical `mapstructure:"historical"`
}

// Config holds the full configuration for the scraper service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Telegram config.Telegram `mapstructure:"telegram"`
	Scraper  Scraper         `mapstructure:"scraper"`
}

// Load loads the scraper configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scraper.Live.URL == "" {
		c.Scraper.Live.URL = "https://www.sharesansar.com/live-trading"
	}
	if c.Scraper.Live.Timeout == 0 {
		c.Scraper.Live.Timeout = 15 * time.Second
	}
	if c.Scraper.Live.UserAgent == "" {
		c.Scraper.Live.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if c.Scraper.Live.InsecureSkipVerify == nil {
		skip := true
		c.Scraper.Live.InsecureSkipVerify = &skip
	}
	if c.Scraper.Live.PolitenessInterval == 0 {
		c.Scraper.Live.PolitenessInterval = time.Second
	}
	if c.Scraper.Live.CronSchedule == "" {
		c.Scraper.Live.CronSchedule = "*/5 * * * *"
	}
	if c.Scraper.Historical.BaseURL == "" {
		c.Scraper.Historical.BaseURL = "https://merolagani.com"
	}
	if c.Scraper.Historical.WaitTimeout == 0 {
		c.Scraper.Historical.WaitTimeout = 10 * time.Second
	}
	if c.Scraper.Historical.TableTimeout == 0 {
		c.Scraper.Historical.TableTimeout = 30 * time.Second
	}
	if c.Scraper.Historical.AlertTimeout == 0 {
		c.Scraper.Historical.AlertTimeout = 2 * time.Second
	}
	if c.Scraper.Historical.SearchSettle == 0 {
		c.Scraper.Historical.SearchSettle = 4 * time.Second
	}
	if c.Scraper.Historical.PageSettle == 0 {
		c.Scraper.Historical.PageSettle = 2 * time.Second
	}
	if c.Scraper.Historical.MaxPages == 0 {
		c.Scraper.Historical.MaxPages = 60
	}
}
