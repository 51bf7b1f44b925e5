package session

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	keyState    = "oauth_state"
	keyVerifier = "oauth_verifier"
	keyUserID   = "user_id"
)

// ErrNoFlow is returned when a callback arrives without a pending login.
var ErrNoFlow = errors.New("session: no pending oauth flow")

// Manager keeps per-browser state in a cookie signed with the session secret.
// It stores only the pending OAuth flow and the signed-in user's external id;
// the provider profile and tokens never enter the cookie.
type Manager struct {
	store sessions.Store
	name  string
}

func NewManager(secret string, opts CookieOptions) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = opts.sessionOptions()
	// Also bounds the signed timestamp, so stale cookies are rejected server side.
	store.MaxAge(store.Options.MaxAge)
	return &Manager{store: store, name: CookieName}
}

// get never fails: a missing or tampered cookie yields a fresh session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, m.name)
	if err != nil || s == nil {
		s = sessions.NewSession(m.store, m.name)
		s.Options = m.optionsCopy()
		s.IsNew = true
	}
	return s
}

func (m *Manager) optionsCopy() *sessions.Options {
	if cs, ok := m.store.(*sessions.CookieStore); ok && cs.Options != nil {
		o := *cs.Options
		return &o
	}
	return &sessions.Options{Path: "/"}
}

// BeginFlow records the state and PKCE verifier for a login in progress.
func (m *Manager) BeginFlow(w http.ResponseWriter, r *http.Request, state, verifier string) error {
	s := m.get(r)
	s.Values[keyState] = state
	s.Values[keyVerifier] = verifier
	return s.Save(r, w)
}

// TakeFlow returns and clears the pending flow so a state value can be
// used only once.
func (m *Manager) TakeFlow(w http.ResponseWriter, r *http.Request) (state, verifier string, err error) {
	s := m.get(r)

	state, _ = s.Values[keyState].(string)
	verifier, _ = s.Values[keyVerifier].(string)
	delete(s.Values, keyState)
	delete(s.Values, keyVerifier)

	if err := s.Save(r, w); err != nil {
		return "", "", err
	}
	if state == "" || verifier == "" {
		return "", "", ErrNoFlow
	}
	return state, verifier, nil
}

// SignIn records the external id of the authenticated user.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, externalID string) error {
	s := m.get(r)
	s.Values[keyUserID] = externalID
	return s.Save(r, w)
}

// UserID returns the signed-in user's external id, if any.
func (m *Manager) UserID(r *http.Request) (string, bool) {
	id, ok := m.get(r).Values[keyUserID].(string)
	return id, ok && id != ""
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}
