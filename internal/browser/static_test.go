package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-upwork-relay/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<article class="tile" data-id="a"><h2> First </h2><span class="tag">x</span><span class="tag">y</span></article>
<article class="tile" data-id=""><h2>Second</h2></article>
</body></html>`

func writeHTML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestStaticSession_Listings(t *testing.T) {
	s := NewStaticSession(writeHTML(t, resultsPage), "article.tile")
	require.NoError(t, s.Open(context.Background(), "ignored"))
	defer s.Close()

	els, err := s.Listings()
	require.NoError(t, err)
	require.Len(t, els, 2)

	id, ok, err := els[0].Attribute("data-id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", id)

	_, ok, err = els[1].Attribute("data-id")
	require.NoError(t, err)
	assert.False(t, ok, "empty attribute counts as absent")

	h2, err := els[0].Find("h2")
	require.NoError(t, err)
	text, err := h2.Text()
	require.NoError(t, err)
	assert.Equal(t, " First ", text)

	tags, err := els[0].FindAll("span.tag")
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	_, err = els[1].Find("span.tag")
	assert.ErrorIs(t, err, scraper.ErrNotFound)

	none, err := els[1].FindAll("span.tag")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStaticSession_NoListings(t *testing.T) {
	s := NewStaticSession(writeHTML(t, "<html><body><p>Please log in</p></body></html>"), "article.tile")
	err := s.Open(context.Background(), "")
	assert.ErrorIs(t, err, scraper.ErrListingsTimeout)

	_, err = s.Listings()
	assert.Error(t, err)
}

func TestStaticSession_MissingFile(t *testing.T) {
	s := NewStaticSession(filepath.Join(t.TempDir(), "none.html"), "article.tile")
	err := s.Open(context.Background(), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, scraper.ErrListingsTimeout)
}

func TestStaticSession_ListingsBeforeOpen(t *testing.T) {
	_, err := NewStaticSession("x.html", "article.tile").Listings()
	assert.Error(t, err)
}
