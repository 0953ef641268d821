// Package relay assembles one pipeline run from configuration.
package relay

import (
	"context"
	"fmt"
	"path/filepath"

	"go-upwork-relay/internal/archive"
	"go-upwork-relay/internal/browser"
	"go-upwork-relay/internal/config"
	"go-upwork-relay/internal/dedup"
	"go-upwork-relay/internal/pipeline"
	"go-upwork-relay/internal/scraper"
	"go-upwork-relay/internal/scraper/upwork"
	"go-upwork-relay/internal/telegram"

	"github.com/sirupsen/logrus"
)

// Options are per-invocation overrides that do not belong in the config file.
type Options struct {
	// HTMLSnapshot replays a saved results page instead of opening a browser.
	HTMLSnapshot string
}

// NewLogger builds the process logger at the configured level.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// Run performs one relay pass and archives what it built. The result is
// non-nil even when err is set.
func Run(ctx context.Context, cfg *config.Config, opts Options, log *logrus.Entry) (*pipeline.Result, error) {
	backend, closeBackend := newBackend(ctx, cfg, log)
	defer closeBackend()

	store := dedup.NewStore(backend, log)
	store.Load(ctx)

	bot := telegram.NewClient(cfg.TelegramToken, cfg.TelegramChannelID, log)

	driver := &pipeline.Driver{
		Session: newSession(cfg, opts, log),
		Builder: upwork.NewBuilder(store, cfg.DescriptionMaxLength, log),
		Format:  telegram.FormatJob,
		Sender:  bot,
		Store:   store,
		Settings: pipeline.Settings{
			SearchURL:    cfg.SearchURL,
			MaxJobs:      cfg.MaxJobs,
			JobDelay:     cfg.JobDelay(),
			MessageDelay: cfg.MessageDelay(),
		},
		Log: log,
	}

	res, runErr := driver.Run(ctx)

	archiveRun(ctx, cfg, res, log)

	if cfg.StatusMessages {
		status := fmt.Sprintf("Run %s: %d new jobs, %d sent", res.RunID, len(res.Jobs), res.Sent)
		if runErr != nil {
			status += fmt.Sprintf(" (aborted: %v)", runErr)
		}
		bot.SendStatus(status)
	}
	return res, runErr
}

func newSession(cfg *config.Config, opts Options, log *logrus.Entry) scraper.Session {
	if opts.HTMLSnapshot != "" {
		log.Infof("📂 Replaying saved page %s", opts.HTMLSnapshot)
		return browser.NewStaticSession(opts.HTMLSnapshot, upwork.ListingSelector)
	}
	return browser.NewPlaywrightSession(browser.Options{
		Headless:        cfg.Headless,
		ProfileDir:      cfg.ChromeProfilePath,
		CookiesFile:     cfg.CookiesPath,
		ListingSelector: upwork.ListingSelector,
		LoadTimeout:     cfg.LoadTimeout(),
		ScrollSettle:    cfg.SettleDelay(),
		ScreenshotDir:   filepath.Join("logs", "screenshots"),
	}, log)
}

// newBackend prefers Redis when configured and reachable, the JSON file
// otherwise. The returned func releases the backend connection.
func newBackend(ctx context.Context, cfg *config.Config, log *logrus.Entry) (dedup.Backend, func()) {
	if cfg.RedisURL != "" {
		rdb, err := dedup.Connect(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("🗄️ Using Redis for scraped job IDs")
			return dedup.NewRedisBackend(rdb, ""), func() { rdb.Close() }
		}
		log.WithError(err).Warn("⚠️ Redis unavailable, falling back to file")
	}
	return dedup.NewFileBackend(cfg.ScrapedJobsPath), func() {}
}

func archiveRun(ctx context.Context, cfg *config.Config, res *pipeline.Result, log *logrus.Entry) {
	if len(res.Jobs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	archivers := archive.Multi{archive.NewJSONWriter(cfg.OutputDir)}

	if cfg.DatabaseURL != "" {
		pg, err := archive.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Warn("⚠️ Could not connect to archive database")
		} else {
			defer pg.Close()
			archivers = append(archivers, pg)
		}
	}

	if err := archivers.Archive(ctx, res.RunID, res.Jobs); err != nil {
		log.WithError(err).Warn("⚠️ Failed to archive jobs")
		return
	}
	log.Infof("📁 Archived %d jobs to %s", len(res.Jobs), cfg.OutputDir)
}
