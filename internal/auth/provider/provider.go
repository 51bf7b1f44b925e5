package provider

import (
	"context"
	"errors"

	"oauth-bridge/internal/auth"
)

// ErrAuthProtocol marks failures of the authorization protocol itself:
// a rejected code, a token that does not verify, or missing claims. Callers
// treat these as a failed login, never as a server fault.
var ErrAuthProtocol = errors.New("oauth protocol error")

// OAuthProvider defines the contract for the external identity provider.
// Implementations return identity facts and the issued access token only
// and must not persist anything or manage sessions.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the authorization URL. State and the PKCE
	// verifier are generated by the caller.
	AuthCodeURL(state string, codeVerifier string) string

	// ExchangeCode exchanges the authorization code and returns the
	// verified identity with the access token issued for it.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (auth.Identity, auth.Credential, error)
}
