package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"CHROME_PROFILE_PATH", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHANNEL_ID", "UPWORK_SEARCH_URL",
	"REDIS_URL", "DATABASE_URL", "LOG_LEVEL", "MAX_JOBS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram_bot_token: "file-token"
telegram_channel_id: "@jobs"
search_url: "https://www.upwork.com/nx/search/jobs/?q=golang"
max_jobs: 3
delay_between_jobs: 0.5
job_description_max_length: 200
headless: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.TelegramToken)
	assert.Equal(t, "@jobs", cfg.TelegramChannelID)
	assert.Equal(t, "https://www.upwork.com/nx/search/jobs/?q=golang", cfg.SearchURL)
	assert.Equal(t, 3, cfg.MaxJobs)
	assert.Equal(t, 200, cfg.DescriptionMaxLength)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 500*time.Millisecond, cfg.JobDelay())

	// keys absent from the file keep their defaults
	assert.Equal(t, 3*time.Second, cfg.MessageDelay())
	assert.Equal(t, 15*time.Second, cfg.LoadTimeout())
	assert.Equal(t, "scraped_jobs.json", cfg.ScrapedJobsPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram_bot_token: "file-token"
max_jobs: 3
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHANNEL_ID", "-100123")
	t.Setenv("CHROME_PROFILE_PATH", "/tmp/profile")
	t.Setenv("MAX_JOBS", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.TelegramToken)
	assert.Equal(t, "-100123", cfg.TelegramChannelID)
	assert.Equal(t, "/tmp/profile", cfg.ChromeProfilePath)
	assert.Equal(t, 7, cfg.MaxJobs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidMaxJobsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_JOBS", "five")

	_, err := Load(writeConfig(t, "max_jobs: 3\n"))
	assert.ErrorContains(t, err, "MAX_JOBS")
}

func TestLoad_MissingFileWritesDefault(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "configs", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "telegram_bot_token")

	// the written file loads back to the same values
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.SearchURL, again.SearchURL)
	assert.Equal(t, cfg.MaxJobs, again.MaxJobs)
	assert.Equal(t, cfg.Schedule, again.Schedule)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "max_jobs: [oops\n"))
	assert.ErrorContains(t, err, "parse")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero description length", "job_description_max_length: 0\n"},
		{"negative max jobs", "max_jobs: -1\n"},
		{"bad search url", "search_url: \"not a url\"\n"},
		{"unknown log level", "log_level: loud\n"},
		{"empty schedule", "schedule: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, time.Duration(0), seconds(0))
	assert.Equal(t, 1500*time.Millisecond, seconds(1.5))
}
