package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(secure bool, sameSite http.SameSite) *Manager {
	return NewManager(Options{
		Secret:   "test-secret",
		Secure:   secure,
		HTTPOnly: true,
		SameSite: sameSite,
	})
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("expected %s cookie to be set", CookieName)
	return nil
}

func TestEnsureIDIssuesAndReusesID(t *testing.T) {
	m := newTestManager(false, http.SameSiteLaxMode)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	id, err := m.EnsureID(rec, req)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cookie := sessionCookie(t, rec)

	next := httptest.NewRequest(http.MethodPost, "/api/crm/interactions", nil)
	next.AddCookie(cookie)
	assert.Equal(t, id, m.ID(next))

	again := httptest.NewRequest(http.MethodGet, "/chat", nil)
	again.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	id2, err := m.EnsureID(rec2, again)
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Empty(t, rec2.Result().Cookies())
}

func TestIDWithoutCookie(t *testing.T) {
	m := newTestManager(false, http.SameSiteLaxMode)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, m.ID(req))
}

func TestIDRejectsForeignCookie(t *testing.T) {
	issuer := NewManager(Options{Secret: "other-secret"})
	rec := httptest.NewRecorder()
	_, err := issuer.EnsureID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	m := newTestManager(false, http.SameSiteLaxMode)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))
	assert.Empty(t, m.ID(req))

	rec2 := httptest.NewRecorder()
	id, err := m.EnsureID(rec2, req)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestCookieHonoursPolicy(t *testing.T) {
	m := newTestManager(true, http.SameSiteStrictMode)

	rec := httptest.NewRecorder()
	_, err := m.EnsureID(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	require.NoError(t, err)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
}
