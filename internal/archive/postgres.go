package archive

import (
	"context"
	"fmt"
	"time"

	"go-upwork-relay/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS upwork_jobs (
	job_id           TEXT PRIMARY KEY,
	run_id           TEXT NOT NULL,
	title            TEXT NOT NULL,
	url              TEXT,
	posted           TEXT NOT NULL,
	budget           TEXT NOT NULL,
	experience_level TEXT NOT NULL,
	duration         TEXT NOT NULL,
	location         TEXT NOT NULL,
	payment_verified BOOLEAN NOT NULL DEFAULT FALSE,
	client_spent     TEXT NOT NULL,
	client_rating    TEXT NOT NULL,
	description      TEXT NOT NULL,
	skills           TEXT[] NOT NULL DEFAULT '{}',
	scraped_at       TIMESTAMPTZ NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertJob = `
INSERT INTO upwork_jobs (job_id, run_id, title, url, posted, budget, experience_level, duration,
	location, payment_verified, client_spent, client_rating, description, skills, scraped_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (job_id)
DO UPDATE SET run_id = EXCLUDED.run_id, title = EXCLUDED.title, description = EXCLUDED.description,
	scraped_at = EXCLUDED.scraped_at`

// Postgres archives jobs into the upwork_jobs table.
type Postgres struct {
	db *pgxpool.Pool
}

// ConnectPostgres opens a small pool and creates the table if needed.
func ConnectPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer, Supabase) reject prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create upwork_jobs: %w", err)
	}

	return &Postgres{db: pool}, nil
}

func (p *Postgres) Close() {
	if p.db != nil {
		p.db.Close()
	}
}

// Archive upserts every job in one batch.
func (p *Postgres) Archive(ctx context.Context, runID string, jobs []scraper.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, j := range jobs {
		skills := j.Skills
		if skills == nil {
			skills = []string{}
		}
		batch.Queue(upsertJob, j.JobID, runID, j.Title, j.URL, j.Posted, j.Budget, j.ExperienceLevel,
			j.Duration, j.Location, j.PaymentVerified, j.ClientSpent, j.ClientRating, j.Description,
			skills, j.ScrapedAt)
	}

	if err := p.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to archive jobs: %w", err)
	}
	return nil
}

// CountJobs returns how many jobs the table holds.
func (p *Postgres) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRow(ctx, "SELECT count(*) FROM upwork_jobs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}
