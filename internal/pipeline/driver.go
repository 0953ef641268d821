// Package pipeline runs one pass over a results page: build records from
// the listings, drop the ones already seen, deliver the rest with pacing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-upwork-relay/internal/scraper"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Builder turns a listing element into a record. It returns false for
// elements that are not jobs or were already seen.
type Builder interface {
	Build(el scraper.Element) (*scraper.Job, bool)
}

// Sender delivers one formatted message.
type Sender interface {
	Send(message string) bool
}

// Saver persists the dedup state at the end of a run.
type Saver interface {
	Save(ctx context.Context) error
}

// Formatter renders a record for delivery.
type Formatter func(job scraper.Job) string

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Settings are the knobs of a run.
type Settings struct {
	SearchURL    string
	MaxJobs      int
	JobDelay     time.Duration
	MessageDelay time.Duration
}

// Result summarises a run. It is returned even when the run aborted.
type Result struct {
	RunID      string
	Jobs       []scraper.Job
	Sent       int
	Examined   int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Driver wires one session, builder, sender and store together.
type Driver struct {
	Session  scraper.Session
	Builder  Builder
	Format   Formatter
	Sender   Sender
	Store    Saver
	Settings Settings
	Sleep    SleepFunc
	Log      *logrus.Entry
}

// Run processes every second listing, in page order, until MaxJobs messages
// were delivered or the listings run out. The dedup store is saved and the
// session closed on every exit path. On abort the partial Result is returned
// with the error.
func (d *Driver) Run(ctx context.Context) (res *Result, err error) {
	res = &Result{
		RunID:     uuid.NewString(),
		Jobs:      []scraper.Job{},
		StartedAt: time.Now(),
	}
	log := d.logger().WithField("run_id", res.RunID)

	defer func() {
		if saveErr := d.Store.Save(context.WithoutCancel(ctx)); saveErr != nil {
			log.WithError(saveErr).Error("❌ Could not save scraped jobs")
		}
		if closeErr := d.Session.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("⚠️ Failed to close page session")
		}
		res.FinishedAt = time.Now()
		if err != nil {
			log.WithError(err).Error("❌ Error scraping jobs")
		}
	}()

	if err := d.Session.Open(ctx, d.Settings.SearchURL); err != nil {
		return res, fmt.Errorf("open search page: %w", err)
	}
	listings, err := d.Session.Listings()
	if err != nil {
		return res, fmt.Errorf("read listings: %w", err)
	}

	for i, el := range listings {
		if i%2 == 0 {
			continue
		}
		if res.Sent >= d.Settings.MaxJobs {
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Examined++
		job, ok := d.Builder.Build(el)
		if ok {
			log.Infof("📄 Scraped job: %s", job.Title)
			res.Jobs = append(res.Jobs, *job)

			if d.Sender.Send(d.Format(*job)) {
				res.Sent++
				if err := d.sleep(ctx, d.Settings.MessageDelay); err != nil {
					return res, err
				}
			}
		} else {
			res.Skipped++
		}

		if err := d.sleep(ctx, d.Settings.JobDelay); err != nil {
			return res, err
		}
	}

	log.Infof("🏁 Successfully scraped and sent %d jobs", res.Sent)
	return res, nil
}

func (d *Driver) sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	sleep := d.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	if err := sleep(ctx, dur); err != nil {
		return fmt.Errorf("delay interrupted: %w", err)
	}
	return nil
}

func (d *Driver) logger() *logrus.Entry {
	if d.Log != nil {
		return d.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Sleep waits for d unless ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsTimeout reports whether a run ended because the page never loaded.
func IsTimeout(err error) bool {
	return errors.Is(err, scraper.ErrListingsTimeout)
}
