package browser

import (
	"context"
	"fmt"
	"io"
	"os"

	"go-upwork-relay/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

// StaticSession serves listings from saved HTML instead of a live browser.
// Useful for replaying a results page offline.
type StaticSession struct {
	path     string
	selector string
	doc      *goquery.Document
}

func NewStaticSession(path, listingSelector string) *StaticSession {
	return &StaticSession{path: path, selector: listingSelector}
}

// Open parses the HTML file. The url is ignored.
func (s *StaticSession) Open(ctx context.Context, url string) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open html snapshot: %w", err)
	}
	defer f.Close()
	return s.load(f)
}

func (s *StaticSession) load(r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parse html snapshot: %w", err)
	}
	if doc.Find(s.selector).Length() == 0 {
		return fmt.Errorf("%s: %w", s.path, scraper.ErrListingsTimeout)
	}
	s.doc = doc
	return nil
}

func (s *StaticSession) Listings() ([]scraper.Element, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("session not open")
	}
	return Selection(s.doc.Find(s.selector)), nil
}

func (s *StaticSession) Close() error {
	s.doc = nil
	return nil
}

// Selection splits a goquery selection into one Element per node.
func Selection(sel *goquery.Selection) []scraper.Element {
	out := make([]scraper.Element, 0, sel.Length())
	sel.Each(func(_ int, node *goquery.Selection) {
		out = append(out, queryElement{sel: node})
	})
	return out
}

type queryElement struct {
	sel *goquery.Selection
}

func (e queryElement) Attribute(name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok && v != "", nil
}

func (e queryElement) Find(selector string) (scraper.Element, error) {
	found := e.sel.Find(selector)
	if found.Length() == 0 {
		return nil, scraper.ErrNotFound
	}
	return queryElement{sel: found.First()}, nil
}

func (e queryElement) FindAll(selector string) ([]scraper.Element, error) {
	return Selection(e.sel.Find(selector)), nil
}

func (e queryElement) Text() (string, error) {
	return e.sel.Text(), nil
}
