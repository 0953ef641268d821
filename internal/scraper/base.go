// Shared types for listing extraction
// A Session yields Elements, a platform builder turns Elements into Jobs

package scraper

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means a scoped lookup matched nothing. It is an expected
	// outcome, distinct from a broken page or a dead browser.
	ErrNotFound = errors.New("element not found")

	// ErrListingsTimeout means the listings never appeared on the page.
	ErrListingsTimeout = errors.New("listings did not load in time")
)

// Job is one job posting. JobID is the only required field.
type Job struct {
	JobID           string    `json:"job_id"`
	Title           string    `json:"title"`
	URL             string    `json:"url,omitempty"`
	Posted          string    `json:"posted"`
	Budget          string    `json:"budget"`
	ExperienceLevel string    `json:"experience_level"`
	Duration        string    `json:"duration"`
	Location        string    `json:"location"`
	PaymentVerified bool      `json:"payment_verified"`
	ClientSpent     string    `json:"client_spent"`
	ClientRating    string    `json:"client_rating"`
	Description     string    `json:"description"`
	Skills          []string  `json:"skills"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// Element is a read-only handle onto a rendered listing tile or one of its
// descendants.
type Element interface {
	// Attribute reads an attribute of the element itself. ok is false when
	// the attribute is absent or empty.
	Attribute(name string) (value string, ok bool, err error)

	// Find returns the first descendant matching selector, or ErrNotFound.
	Find(selector string) (Element, error)

	// FindAll returns every descendant matching selector in document order.
	FindAll(selector string) ([]Element, error)

	// Text returns the rendered text of the element.
	Text() (string, error)
}

// Session is a loaded results page
type Session interface {
	// Open navigates to url and returns once the listings are present and
	// lazily loaded content has been triggered.
	Open(ctx context.Context, url string) error

	// Listings returns the listing tiles in page order.
	Listings() ([]Element, error)

	// Close releases the page. Safe to call more than once.
	Close() error
}
