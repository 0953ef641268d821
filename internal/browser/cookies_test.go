package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "sid", "value": "abc", "domain": ".upwork.com", "path": "/nx", "expires": 1900000000, "httpOnly": true, "secure": true, "sameSite": "no_restriction"},
		{"name": "lang", "value": "en", "domain": "www.upwork.com", "sameSite": "lax"},
		{"name": "", "value": "orphan", "domain": ".upwork.com"},
		{"name": "nodomain", "value": "x"}
	]`), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	sid := cookies[0]
	assert.Equal(t, "sid", sid.Name)
	assert.Equal(t, "/nx", *sid.Path)
	assert.Equal(t, 1900000000.0, *sid.Expires)
	assert.True(t, *sid.HttpOnly)
	assert.True(t, *sid.Secure)
	assert.Equal(t, playwright.SameSiteAttributeNone, sid.SameSite)

	lang := cookies[1]
	assert.Equal(t, "/", *lang.Path)
	assert.Nil(t, lang.Expires)
	assert.Nil(t, lang.HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeLax, lang.SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "not a list"}`), 0644))
	_, err = LoadCookies(path)
	assert.ErrorContains(t, err, "parse")
}

func TestCookie_SameSiteStrict(t *testing.T) {
	c := Cookie{Name: "a", Domain: "b", SameSite: "Strict"}.ToPlaywright()
	assert.Equal(t, playwright.SameSiteAttributeStrict, c.SameSite)

	c = Cookie{Name: "a", Domain: "b", SameSite: "unspecified"}.ToPlaywright()
	assert.Nil(t, c.SameSite)
}
