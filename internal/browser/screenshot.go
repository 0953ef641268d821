package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// ScreenshotDebugger saves full-page screenshots when a page misbehaves
type ScreenshotDebugger struct {
	outputDir string
	log       *logrus.Entry
}

func NewScreenshotDebugger(dir string, log *logrus.Entry) *ScreenshotDebugger {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.WithError(err).Warn("⚠️ Failed to create screenshot directory")
	}
	return &ScreenshotDebugger{
		outputDir: dir,
		log:       log,
	}
}

func (s *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
	s.log.Warnf("📸 %s", message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.WithError(err).Warn("⚠️ Failed to capture screenshot")
		return err
	}

	s.log.Infof("   Screenshot saved: %s", path)
	return nil
}
