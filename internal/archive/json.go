package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-upwork-relay/internal/scraper"
)

// Archiver keeps a record of the jobs a run built.
type Archiver interface {
	Archive(ctx context.Context, runID string, jobs []scraper.Job) error
}

// JSONWriter dumps each run into scraped_jobs_YYYYMMDD_HHMMSS.json.
type JSONWriter struct {
	dir string
	now func() time.Time
}

func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{dir: dir, now: time.Now}
}

// Path is the file a run archived at t lands in.
func (w *JSONWriter) Path(t time.Time) string {
	return filepath.Join(w.dir, fmt.Sprintf("scraped_jobs_%s.json", t.Format("20060102_150405")))
}

// Archive writes nothing for an empty run.
func (w *JSONWriter) Archive(ctx context.Context, runID string, jobs []scraper.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", w.dir, err)
	}

	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal jobs: %w", err)
	}
	path := w.Path(w.now())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Multi fans one archive call out to several archivers and joins their
// failures.
type Multi []Archiver

func (m Multi) Archive(ctx context.Context, runID string, jobs []scraper.Job) error {
	var errs []error
	for _, a := range m {
		if err := a.Archive(ctx, runID, jobs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
