package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go-upwork-relay/internal/config"
	"go-upwork-relay/internal/pipeline"
	"go-upwork-relay/internal/relay"
	"go-upwork-relay/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// lastRun holds the outcome of the most recent pass for /status.
type lastRun struct {
	mu     sync.RWMutex
	result *pipeline.Result
	err    error
}

func (l *lastRun) set(res *pipeline.Result, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.result, l.err = res, err
}

func (l *lastRun) view() gin.H {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.result == nil {
		return gin.H{"status": "pending"}
	}
	h := gin.H{
		"status":      "ok",
		"run_id":      l.result.RunID,
		"jobs":        len(l.result.Jobs),
		"sent":        l.result.Sent,
		"examined":    l.result.Examined,
		"skipped":     l.result.Skipped,
		"started_at":  l.result.StartedAt,
		"finished_at": l.result.FinishedAt,
	}
	if l.err != nil {
		h["status"] = "failed"
		h["error"] = l.err.Error()
	}
	return h
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("❌ Failed to load config: %v", err)
	}
	log := logrus.NewEntry(relay.NewLogger(cfg.LogLevel))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := &lastRun{}
	sched := scheduler.New(cfg.Schedule, func(ctx context.Context) {
		res, err := relay.Run(ctx, cfg, relay.Options{}, log)
		state.set(res, err)
	}, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Upwork relay is running!",
			"status":  "healthy",
		})
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.view())
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		log.Infof("Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("⚠️ HTTP shutdown failed")
	}
	sched.Stop()
}
