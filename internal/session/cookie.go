package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	CookieName = "oauth_bridge_session"

	defaultMaxAge = 24 * time.Hour
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   time.Duration
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.MaxAge == 0 {
		o.MaxAge = defaultMaxAge
	}
	if !o.HttpOnly {
		o.HttpOnly = true // secure default
	}
	if o.SameSite == 0 {
		// Lax so the cookie survives the top-level redirect back from the provider.
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

func (o CookieOptions) sessionOptions() *sessions.Options {
	o = o.normalize()
	return &sessions.Options{
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   int(o.MaxAge.Seconds()),
		HttpOnly: o.HttpOnly,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
}
