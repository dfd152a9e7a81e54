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
	dir := t.TempDir()
	path := filepath.Join(dir, "cookies-linkedin.json")
	data := `[{"name":"li_at","value":"abc","domain":".linkedin.com","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"None"},
	{"name":"lang","value":"en","domain":".linkedin.com"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	assert.Equal(t, "li_at", cookies[0].Name)
	assert.Equal(t, ".linkedin.com", *cookies[0].Domain)
	assert.True(t, *cookies[0].HttpOnly)
	assert.True(t, *cookies[0].Secure)
	assert.Equal(t, playwright.SameSiteAttributeNone, cookies[0].SameSite)
	assert.Equal(t, 1893456000.0, *cookies[0].Expires)

	assert.Equal(t, "/", *cookies[1].Path)
	assert.Nil(t, cookies[1].Expires)
	assert.Nil(t, cookies[1].SameSite)
}

func TestLoadCookies_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies-bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadCookies(path)
	assert.Error(t, err)

	_, err = LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCookieFileForHost(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cookies-linkedin.json"), []byte("[]"), 0644))

	assert.Equal(t, filepath.Join(dir, "cookies-linkedin.json"), CookieFileForHost(dir, "www.LinkedIn.com"))
	assert.Empty(t, CookieFileForHost(dir, "indeed.com"))
	assert.Empty(t, CookieFileForHost(dir, "localhost"))
}
