// Package config loads application configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Telegram  TelegramConfig
	Scraper   ScraperConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"ec_user"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"economic_calendar"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"20"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
}

type ScraperConfig struct {
	URL               string        `envconfig:"SCRAPER_URL" default:"https://ru.investing.com/economic-calendar/"`
	NavigationTimeout time.Duration `envconfig:"SCRAPER_NAV_TIMEOUT" default:"30s"`
	LocatorTimeout    time.Duration `envconfig:"SCRAPER_LOCATOR_TIMEOUT" default:"3s"`
	ViewSettle        time.Duration `envconfig:"SCRAPER_VIEW_SETTLE" default:"3s"`
	ContentSettle     time.Duration `envconfig:"SCRAPER_CONTENT_SETTLE" default:"2s"`
}

type SchedulerConfig struct {
	// Daily update time, standard 5-field cron expression.
	CronSpec string `envconfig:"SCHEDULER_CRON" default:"0 5 * * *"`
}

// Load reads the optional .env file and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be fully set already.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}
