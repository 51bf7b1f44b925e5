package google

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"oauth-bridge/internal/auth"
	"oauth-bridge/internal/auth/provider"

	"github.com/oauth2-proxy/mockoidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const redirectURL = "http://localhost:3000/auth/callback"

func newMockProvider(t *testing.T) (*Provider, *mockoidc.MockOIDC) {
	t.Helper()

	m, err := mockoidc.Run()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown() })

	cfg := m.Config()
	p, err := New(context.Background(), Config{
		Issuer:       m.Issuer(),
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURL,
	})
	require.NoError(t, err)
	return p, m
}

// authorize follows the provider's authorization endpoint and returns the
// code from its redirect back to redirectURL.
func authorize(t *testing.T, p *Provider, state, verifier string) string {
	t.Helper()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	res, err := client.Get(p.AuthCodeURL(state, verifier))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusFound, res.StatusCode)

	loc, err := res.Location()
	require.NoError(t, err)
	assert.Equal(t, state, loc.Query().Get("state"))

	code := loc.Query().Get("code")
	require.NotEmpty(t, code)
	return code
}

func TestNew_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no client id", Config{ClientSecret: "s", RedirectURL: redirectURL}},
		{"no client secret", Config{ClientID: "c", RedirectURL: redirectURL}},
		{"no redirect", Config{ClientID: "c", ClientSecret: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(context.Background(), tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestScopes(t *testing.T) {
	got := scopes([]string{"email", "", "https://www.googleapis.com/auth/spreadsheets"})
	assert.Equal(t, []string{"openid", "profile", "email", "https://www.googleapis.com/auth/spreadsheets"}, got)
}

func TestAuthCodeURL(t *testing.T) {
	p, _ := newMockProvider(t)
	verifier := oauth2.GenerateVerifier()

	u, err := url.Parse(p.AuthCodeURL("state-1", verifier))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, redirectURL, q.Get("redirect_uri"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(verifier), q.Get("code_challenge"))
	assert.Contains(t, q.Get("scope"), "openid")
	assert.Contains(t, q.Get("scope"), "email")
}

func TestExchangeCode(t *testing.T) {
	p, m := newMockProvider(t)
	m.QueueUser(&mockoidc.MockUser{
		Subject:       "g-123",
		Email:         "jane@example.com",
		EmailVerified: true,
	})

	verifier := oauth2.GenerateVerifier()
	code := authorize(t, p, "state-1", verifier)

	identity, cred, err := p.ExchangeCode(context.Background(), code, verifier)
	require.NoError(t, err)

	assert.Equal(t, "google", identity.Provider)
	assert.Equal(t, "g-123", identity.ExternalID)
	assert.Equal(t, "jane@example.com", identity.Attribute(auth.AttrEmail))
	assert.NotEmpty(t, cred.Value)
	assert.Equal(t, "g-123", cred.IssuedFor)
}

func TestExchangeCode_BadCode(t *testing.T) {
	p, _ := newMockProvider(t)

	_, _, err := p.ExchangeCode(context.Background(), "not-a-code", oauth2.GenerateVerifier())
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAuthProtocol)
}
