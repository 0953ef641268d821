package upwork

import (
	"errors"
	"strings"

	"go-upwork-relay/internal/scraper"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// Tile markup on the Upwork search results page.
const (
	ListingSelector = `[data-test="JobTile"]`

	attrJobUID     = "data-ev-job-uid"
	selTitle       = "h2.job-tile-title a"
	selPosted      = `[data-test="job-pubilshed-date"] span:last-child`
	selBudget      = `[data-test="job-type-label"] strong`
	selExperience  = `[data-test="experience-level"] strong`
	selDuration    = `[data-test="duration-label"] strong:last-child`
	selLocation    = `[data-test="location"] span:last-child`
	selVerified    = `[data-test="payment-verified"]`
	selSpent       = `[data-test="total-spent"] strong`
	selRating      = ".air3-rating-value-text"
	selDescription = `[data-test="JobDescription"] p`
	selSkills      = `[data-test="TokenClamp"] .air3-token span`
)

// Placeholders used when a field cannot be read from the tile.
const (
	DefaultTitle       = "Title not available"
	DefaultPosted      = "Time not available"
	DefaultBudget      = "Budget not specified"
	DefaultExperience  = "Not specified"
	DefaultDuration    = "Not specified"
	DefaultLocation    = "Location not specified"
	DefaultSpent       = "Not available"
	DefaultRating      = "No rating"
	DefaultDescription = "Description not available"
)

// fieldReader performs independent lookups on one tile. No lookup can fail
// the tile: every miss resolves to the caller's default.
type fieldReader struct {
	el  scraper.Element
	log *logrus.Entry
}

// jobID reads the tile identity. An empty result means the element is not a
// job tile.
func (r fieldReader) jobID() string {
	v, ok, err := r.el.Attribute(attrJobUID)
	if err != nil {
		r.log.WithError(err).Warn("⚠️ Could not read job uid")
		return ""
	}
	if !ok {
		return ""
	}
	return cleanText(v)
}

// text returns the trimmed text of the first match of selector, or def.
func (r fieldReader) text(field, selector, def string) string {
	el, ok := r.find(field, selector)
	if !ok {
		return def
	}
	t, err := el.Text()
	if err != nil {
		r.log.WithError(err).WithField("field", field).Warn("⚠️ Could not read field text")
		return def
	}
	if t = cleanText(t); t == "" {
		r.log.WithField("field", field).Debug("empty field, using default")
		return def
	}
	return t
}

// attr returns an attribute of the first match of selector. ok is false on
// any miss.
func (r fieldReader) attr(field, selector, name string) (string, bool) {
	el, ok := r.find(field, selector)
	if !ok {
		return "", false
	}
	v, ok, err := el.Attribute(name)
	if err != nil {
		r.log.WithError(err).WithField("field", field).Warn("⚠️ Could not read field attribute")
		return "", false
	}
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// exists reports whether selector matches anything inside the tile.
func (r fieldReader) exists(field, selector string) bool {
	_, ok := r.find(field, selector)
	return ok
}

// texts returns the non-empty texts of every match of selector in order.
func (r fieldReader) texts(field, selector string) []string {
	els, err := r.el.FindAll(selector)
	if err != nil {
		if !errors.Is(err, scraper.ErrNotFound) {
			r.log.WithError(err).WithField("field", field).Warn("⚠️ Could not list field elements")
		}
		return []string{}
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		t, err := el.Text()
		if err != nil {
			r.log.WithError(err).WithField("field", field).Debug("skipping unreadable item")
			continue
		}
		if t = cleanText(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (r fieldReader) find(field, selector string) (scraper.Element, bool) {
	el, err := r.el.Find(selector)
	switch {
	case err == nil:
		return el, true
	case errors.Is(err, scraper.ErrNotFound):
		r.log.WithField("field", field).Debug("field not present, using default")
	default:
		r.log.WithError(err).WithField("field", field).Warn("⚠️ Lookup failed, using default")
	}
	return nil, false
}

// cleanText trims and NFC-normalizes rendered text so the same glyphs always
// compare and truncate the same way.
func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
