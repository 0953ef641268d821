package dedup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// ErrNoSnapshot is returned by a Backend that has never been written.
var ErrNoSnapshot = errors.New("no dedup snapshot")

// Snapshot is the persisted form of the store.
type Snapshot struct {
	JobIDs      []string `json:"job_ids"`
	LastUpdated string   `json:"last_updated"`
}

// Backend loads and overwrites snapshots.
type Backend interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Store holds the job ids seen so far. One Store serves one run; it is not
// safe for concurrent use.
type Store struct {
	backend Backend
	seen    mapset.Set[string]
	now     func() time.Time
	log     *logrus.Entry
}

func NewStore(backend Backend, log *logrus.Entry) *Store {
	return &Store{
		backend: backend,
		seen:    mapset.NewThreadUnsafeSet[string](),
		now:     time.Now,
		log:     log.WithField("component", "dedup"),
	}
}

// Load fills the store from the backend. A missing or unreadable snapshot
// leaves the store empty and is only logged.
func (s *Store) Load(ctx context.Context) {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			s.log.Warn("⚠️ No previously scraped jobs found, starting fresh")
		} else {
			s.log.WithError(err).Warn("⚠️ Could not load scraped jobs")
		}
		return
	}

	for _, id := range snap.JobIDs {
		if id != "" {
			s.seen.Add(id)
		}
	}

	entry := s.log.WithField("count", s.seen.Cardinality())
	if ts, ok := parseTimestamp(snap.LastUpdated); ok {
		entry = entry.WithField("last_updated", humanize.Time(ts))
	}
	entry.Infof("📋 Loaded %d previously scraped job IDs", s.seen.Cardinality())
}

func (s *Store) Contains(id string) bool {
	return s.seen.Contains(id)
}

// Add records id and reports whether it was new.
func (s *Store) Add(id string) bool {
	return s.seen.Add(id)
}

func (s *Store) Len() int {
	return s.seen.Cardinality()
}

// Save overwrites the backend snapshot with the current ids.
func (s *Store) Save(ctx context.Context) error {
	ids := s.seen.ToSlice()
	sort.Strings(ids)
	snap := Snapshot{
		JobIDs:      ids,
		LastUpdated: s.now().Format(time.RFC3339Nano),
	}
	if err := s.backend.Save(ctx, snap); err != nil {
		return fmt.Errorf("save scraped jobs: %w", err)
	}
	s.log.Infof("💾 Saved %d scraped job IDs", len(ids))
	return nil
}

// Snapshots written by older tooling carry no zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
