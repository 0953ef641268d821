package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-upwork-relay/internal/config"
	"go-upwork-relay/internal/relay"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	htmlSnapshot := flag.String("html", "", "replay a saved results page instead of opening a browser")
	flag.Parse()

	//load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("❌ Failed to load config: %v", err)
	}
	log := logrus.NewEntry(relay.NewLogger(cfg.LogLevel))
	log.Infof("🔧 Config loaded. Max jobs: %d", cfg.MaxJobs)

	//stop cleanly on Ctrl+C so the dedup file still gets written
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("🚀 Starting Upwork relay...")
	res, err := relay.Run(ctx, cfg, relay.Options{HTMLSnapshot: *htmlSnapshot}, log)
	if err != nil {
		log.WithError(err).Error("❌ Run aborted")
	}

	fmt.Printf("Scraping completed. %d jobs processed.\n", len(res.Jobs))
	if err != nil {
		os.Exit(1)
	}
}
