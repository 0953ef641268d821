package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-upwork-relay/internal/scraper"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Options configures a PlaywrightSession.
type Options struct {
	Headless        bool
	ProfileDir      string // persistent Chromium profile, optional
	CookiesFile     string // JSON cookie export, optional
	ListingSelector string
	LoadTimeout     time.Duration
	ScrollSettle    time.Duration
	ScreenshotDir   string
}

// PlaywrightSession drives one Chromium page through playwright-go.
type PlaywrightSession struct {
	opts Options
	log  *logrus.Entry

	pw         *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	page       playwright.Page

	closeOnce sync.Once
	closeErr  error
}

func NewPlaywrightSession(opts Options, log *logrus.Entry) *PlaywrightSession {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 15 * time.Second
	}
	if opts.ScrollSettle < 0 {
		opts.ScrollSettle = 0
	}
	return &PlaywrightSession{
		opts: opts,
		log:  log.WithField("component", "playwright"),
	}
}

func (s *PlaywrightSession) start() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	s.pw = pw

	if s.opts.ProfileDir != "" {
		s.browserCtx, err = pw.Chromium.LaunchPersistentContext(s.opts.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(s.opts.Headless),
		})
		if err != nil {
			return fmt.Errorf("could not launch chromium with profile %s: %w", s.opts.ProfileDir, err)
		}
		s.log.Infof("🌐 Chromium launched with profile %s", s.opts.ProfileDir)
	} else {
		s.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(s.opts.Headless),
		})
		if err != nil {
			return fmt.Errorf("could not launch chromium: %w", err)
		}
		s.browserCtx, err = s.browser.NewContext()
		if err != nil {
			return fmt.Errorf("could not create browser context: %w", err)
		}
	}

	if s.opts.CookiesFile != "" {
		cookies, err := LoadCookies(s.opts.CookiesFile)
		if err != nil {
			s.log.WithError(err).Warn("⚠️ Could not load cookies. Continuing.")
		} else if err := s.browserCtx.AddCookies(cookies); err != nil {
			s.log.WithError(err).Warn("⚠️ Could not add cookies. Continuing.")
		} else {
			s.log.Infof("🍪 Loaded %d cookies", len(cookies))
		}
	}

	if pages := s.browserCtx.Pages(); len(pages) > 0 {
		s.page = pages[0]
	} else if s.page, err = s.browserCtx.NewPage(); err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	return nil
}

// Open navigates to url, waits for the first listing, then scrolls to the
// bottom so lazily rendered tiles load.
func (s *PlaywrightSession) Open(ctx context.Context, url string) error {
	if s.page == nil {
		if err := s.start(); err != nil {
			return err
		}
	}

	s.log.Infof("🔍 Navigating to: %s", url)
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	err := s.page.Locator(s.opts.ListingSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(s.opts.LoadTimeout.Milliseconds())),
	})
	if err != nil {
		if s.opts.ScreenshotDir != "" {
			NewScreenshotDebugger(s.opts.ScreenshotDir, s.log).CaptureAndLog(s.page, "listings-timeout", "🚨 Listings did not appear")
		}
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("waited %v: %w", s.opts.LoadTimeout, scraper.ErrListingsTimeout)
		}
		return fmt.Errorf("wait for listings: %w", err)
	}

	if err := ScrollToBottom(s.page); err != nil {
		return fmt.Errorf("scroll results: %w", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.opts.ScrollSettle):
	}
	return nil
}

func (s *PlaywrightSession) Listings() ([]scraper.Element, error) {
	if s.page == nil {
		return nil, fmt.Errorf("session not open")
	}
	tiles, err := s.page.Locator(s.opts.ListingSelector).All()
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	s.log.Infof("📦 Found %d job postings", len(tiles))
	return locators(tiles), nil
}

// Close tears down the page, context, browser and driver in that order.
func (s *PlaywrightSession) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.browserCtx != nil {
			errs = append(errs, s.browserCtx.Close())
		}
		if s.browser != nil {
			errs = append(errs, s.browser.Close())
		}
		if s.pw != nil {
			errs = append(errs, s.pw.Stop())
		}
		s.page = nil
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// lookupTimeout bounds reads on elements that are known to exist.
const lookupTimeout = 1000

type locatorElement struct {
	loc playwright.Locator
}

func locators(locs []playwright.Locator) []scraper.Element {
	out := make([]scraper.Element, len(locs))
	for i, l := range locs {
		out[i] = locatorElement{loc: l}
	}
	return out
}

func (e locatorElement) Attribute(name string) (string, bool, error) {
	v, err := e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(lookupTimeout),
	})
	if err != nil {
		return "", false, err
	}
	return v, v != "", nil
}

func (e locatorElement) Find(selector string) (scraper.Element, error) {
	loc := e.loc.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, scraper.ErrNotFound
	}
	return locatorElement{loc: loc.First()}, nil
}

func (e locatorElement) FindAll(selector string) ([]scraper.Element, error) {
	all, err := e.loc.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	return locators(all), nil
}

func (e locatorElement) Text() (string, error) {
	return e.loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(lookupTimeout),
	})
}
