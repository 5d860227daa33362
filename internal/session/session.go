// Package session keeps the caller's chat session id in a signed cookie.
package session

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "savi_session"

	idKey = "session_id"
)

// Options configures the session cookie.
type Options struct {
	Secret   string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
	// MaxAge in seconds; 0 issues a browser-session cookie.
	MaxAge int
}

// Manager issues and reads session ids.
type Manager struct {
	store *sessions.CookieStore
	newID func() string
}

// NewManager creates a Manager signing cookies with opts.Secret.
func NewManager(opts Options) *Manager {
	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: opts.HTTPOnly,
		SameSite: opts.SameSite,
	}
	return &Manager{
		store: store,
		newID: uuid.NewString,
	}
}

// ID returns the session id carried by the request, or "" when there is none
// or the cookie does not verify.
func (m *Manager) ID(r *http.Request) string {
	sess, err := m.store.Get(r, CookieName)
	if err != nil || sess == nil {
		return ""
	}
	id, _ := sess.Values[idKey].(string)
	return id
}

// EnsureID returns the request's session id, issuing and persisting a new one
// when the session has none.
func (m *Manager) EnsureID(w http.ResponseWriter, r *http.Request) (string, error) {
	// a cookie that fails to decode still yields a fresh session
	sess, _ := m.store.Get(r, CookieName)
	if sess == nil {
		return "", fmt.Errorf("session store returned no session")
	}
	if id, ok := sess.Values[idKey].(string); ok && id != "" {
		return id, nil
	}

	id := m.newID()
	sess.Values[idKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return id, nil
}
