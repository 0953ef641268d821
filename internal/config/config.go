// Load envs from .env
// Load YAML config, write a commented default when it is missing
// Apply env overrides and defaults, then validate

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	//Telegram
	TelegramToken     string `yaml:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID string `yaml:"telegram_channel_id" env:"TELEGRAM_CHANNEL_ID"`
	StatusMessages    bool   `yaml:"status_messages"`

	//Search
	SearchURL            string  `yaml:"search_url" env:"UPWORK_SEARCH_URL" validate:"required,url"`
	MaxJobs              int     `yaml:"max_jobs" env:"MAX_JOBS" validate:"gte=0"`
	DelayBetweenJobs     float64 `yaml:"delay_between_jobs" validate:"gte=0"`
	DelayBetweenMessages float64 `yaml:"delay_between_messages" validate:"gte=0"`
	DescriptionMaxLength int     `yaml:"job_description_max_length" validate:"gt=0"`

	//Browser
	Headless          bool    `yaml:"headless"`
	ChromeProfilePath string  `yaml:"chrome_profile_path" env:"CHROME_PROFILE_PATH"`
	CookiesPath       string  `yaml:"cookies_path"`
	PageLoadTimeout   float64 `yaml:"page_load_timeout" validate:"gt=0"`
	ScrollSettle      float64 `yaml:"scroll_settle" validate:"gte=0"`

	//Storage
	ScrapedJobsPath string `yaml:"scraped_jobs_path" validate:"required"`
	OutputDir       string `yaml:"output_dir"`
	RedisURL        string `yaml:"redis_url" env:"REDIS_URL"`
	DatabaseURL     string `yaml:"database_url" env:"DATABASE_URL"`

	//Runtime
	Schedule string `yaml:"schedule" validate:"required"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn warning error"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		SearchURL:            "https://www.upwork.com/nx/search/jobs/?nbs=1&sort=recency",
		MaxJobs:              5,
		DelayBetweenJobs:     2,
		DelayBetweenMessages: 3,
		DescriptionMaxLength: 500,
		PageLoadTimeout:      15,
		ScrollSettle:         3,
		ScrapedJobsPath:      "scraped_jobs.json",
		OutputDir:            ".",
		Schedule:             "@every 30m",
		LogLevel:             "info",
	}
}

// Load reads path on top of the defaults. A missing file is created with
// commented defaults and the defaults are used for this run.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		logrus.Infof("🔧 Configuration loaded from %s", path)
	case errors.Is(err, os.ErrNotExist):
		logrus.Infof("Config file not found, creating default %s", path)
		if err := WriteDefault(path); err != nil {
			logrus.WithError(err).Warn("⚠️ Could not write default config")
		} else {
			logrus.Info("Please update the configuration file with your settings.")
		}
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides file values with the documented environment variables.
func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"CHROME_PROFILE_PATH": &cfg.ChromeProfilePath,
		"TELEGRAM_BOT_TOKEN":  &cfg.TelegramToken,
		"TELEGRAM_CHANNEL_ID": &cfg.TelegramChannelID,
		"UPWORK_SEARCH_URL":   &cfg.SearchURL,
		"REDIS_URL":           &cfg.RedisURL,
		"DATABASE_URL":        &cfg.DatabaseURL,
		"LOG_LEVEL":           &cfg.LogLevel,
	}
	for env, dst := range strs {
		if v := os.Getenv(env); v != "" {
			*dst = v
			logrus.Debugf("Using environment variable %s", env)
		}
	}

	if v := os.Getenv("MAX_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_JOBS: %w", err)
		}
		cfg.MaxJobs = n
	}
	return nil
}

func (c *Config) JobDelay() time.Duration     { return seconds(c.DelayBetweenJobs) }
func (c *Config) MessageDelay() time.Duration { return seconds(c.DelayBetweenMessages) }
func (c *Config) LoadTimeout() time.Duration  { return seconds(c.PageLoadTimeout) }
func (c *Config) SettleDelay() time.Duration  { return seconds(c.ScrollSettle) }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

const defaultFile = `# Telegram configuration - get these from @BotFather
telegram_bot_token: ""
telegram_channel_id: "@your_channel_name"
# Post a one-line summary after every run
status_messages: false

# Upwork search URL - customize with your filters
search_url: "https://www.upwork.com/nx/search/jobs/?nbs=1&sort=recency"

# Scraping settings
max_jobs: 5
delay_between_jobs: 2
delay_between_messages: 3
job_description_max_length: 500

# Browser
headless: false
chrome_profile_path: ""
cookies_path: ""
page_load_timeout: 15
scroll_settle: 3

# Storage
scraped_jobs_path: "scraped_jobs.json"
output_dir: "."
redis_url: ""
database_url: ""

# Server mode
schedule: "@every 30m"
log_level: "info"
`

// WriteDefault writes the commented default config to path.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultFile), 0644)
}
