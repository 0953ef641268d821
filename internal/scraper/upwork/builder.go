package upwork

import (
	"time"

	"go-upwork-relay/internal/scraper"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxDescription = 500
	ellipsis              = "..."
)

// SeenSet is the dedup view the builder needs.
type SeenSet interface {
	Contains(id string) bool
	Add(id string) bool
}

// Builder turns Upwork job tiles into records, skipping identities it has
// already seen.
type Builder struct {
	seen    SeenSet
	maxDesc int
	now     func() time.Time
	log     *logrus.Entry
}

// NewBuilder returns a Builder that truncates descriptions to maxDesc runes.
// A non-positive maxDesc falls back to DefaultMaxDescription.
func NewBuilder(seen SeenSet, maxDesc int, log *logrus.Entry) *Builder {
	if maxDesc <= 0 {
		maxDesc = DefaultMaxDescription
	}
	return &Builder{
		seen:    seen,
		maxDesc: maxDesc,
		now:     time.Now,
		log:     log.WithField("component", "upwork_builder"),
	}
}

// Build returns the record for el, or false when el has no identity or its
// identity was already seen. A built identity is marked seen immediately.
func (b *Builder) Build(el scraper.Element) (*scraper.Job, bool) {
	r := fieldReader{el: el, log: b.log}

	id := r.jobID()
	if id == "" {
		return nil, false
	}
	if b.seen.Contains(id) {
		b.log.WithField("job_id", id).Debug("job already scraped, skipping")
		return nil, false
	}

	job := &scraper.Job{
		JobID:           id,
		Title:           r.text("title", selTitle, DefaultTitle),
		Posted:          r.text("posted", selPosted, DefaultPosted),
		Budget:          r.text("budget", selBudget, DefaultBudget),
		ExperienceLevel: r.text("experience_level", selExperience, DefaultExperience),
		Duration:        r.text("duration", selDuration, DefaultDuration),
		Location:        r.text("location", selLocation, DefaultLocation),
		PaymentVerified: r.exists("payment_verified", selVerified),
		ClientSpent:     r.text("client_spent", selSpent, DefaultSpent),
		ClientRating:    r.text("client_rating", selRating, DefaultRating),
		Description:     DefaultDescription,
		Skills:          r.texts("skills", selSkills),
		ScrapedAt:       b.now(),
	}
	if href, ok := r.attr("url", selTitle, "href"); ok && href != "" {
		job.URL = href
	}
	if desc := r.text("description", selDescription, ""); desc != "" {
		job.Description = Truncate(desc, b.maxDesc)
	}

	b.seen.Add(id)
	return job, true
}

// Truncate cuts s to max runes and appends "..." when it is longer. Applying
// it to its own output returns the same string.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + ellipsis
}
