package browser

import (
	"github.com/playwright-community/playwright-go"
)

// ScrollToBottom jumps to the end of the document to trigger lazy loading
func ScrollToBottom(page playwright.Page) error {
	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}
