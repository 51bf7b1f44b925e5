package google

import (
	"context"
	"errors"
	"fmt"

	"oauth-bridge/internal/auth"
	"oauth-bridge/internal/auth/provider"
	"oauth-bridge/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	providerName  = "google"
	DefaultIssuer = "https://accounts.google.com"
)

type Config struct {
	Issuer       string // defaults to DefaultIssuer
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// ExtraScopes are requested in addition to openid, profile and email.
	ExtraScopes []string

	// FetchProfile fills display attributes from the userinfo API when the
	// ID token does not carry them.
	FetchProfile bool
}

type Provider struct {
	oauthConfig  *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	fetchProfile bool
}

func New(ctx context.Context, cfg Config) (*Provider, error) {

	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes:       scopes(cfg.ExtraScopes),
	}

	return &Provider{
		oauthConfig:  oauthCfg,
		verifier:     verifier,
		fetchProfile: cfg.FetchProfile,
	}, nil
}

func scopes(extra []string) []string {
	out := []string{oidc.ScopeOpenID, "profile", "email"}
	seen := map[string]bool{}
	for _, s := range out {
		seen[s] = true
	}
	for _, s := range extra {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// Scopes returns the scopes requested at authorization time.
func (p *Provider) Scopes() []string {
	return append([]string(nil), p.oauthConfig.Scopes...)
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeVerifier string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(codeVerifier),
	)
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (auth.Identity, auth.Credential, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.VerifierOption(codeVerifier),
	)
	if err != nil {
		return auth.Identity{}, auth.Credential{}, fmt.Errorf("%w: google token exchange failed: %w", provider.ErrAuthProtocol, err)
	}

	if token.AccessToken == "" {
		return auth.Identity{}, auth.Credential{}, fmt.Errorf("%w: google did not return an access token", provider.ErrAuthProtocol)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return auth.Identity{}, auth.Credential{}, fmt.Errorf("%w: google did not return id_token", provider.ErrAuthProtocol)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return auth.Identity{}, auth.Credential{}, fmt.Errorf("%w: google id_token verification failed: %w", provider.ErrAuthProtocol, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return auth.Identity{}, auth.Credential{}, fmt.Errorf("%w: google id_token claims parse failed: %w", provider.ErrAuthProtocol, err)
	}

	if claims.Subject == "" {
		return auth.Identity{}, auth.Credential{}, fmt.Errorf("%w: google id_token missing subject", provider.ErrAuthProtocol)
	}

	attrs := map[string]string{
		auth.AttrEmail:   claims.Email,
		auth.AttrName:    claims.Name,
		auth.AttrPicture: claims.Picture,
	}
	if p.fetchProfile && (claims.Name == "" || claims.Email == "") {
		p.mergeProfile(ctx, token, claims.Subject, attrs)
	}

	logger.Info("google oidc verified", map[string]any{
		"issuer":          idToken.Issuer,
		"subject_present": claims.Subject != "",
		"email_present":   attrs[auth.AttrEmail] != "",
		"email_verified":  claims.EmailVerified,
		"audience":        idToken.Audience,
		"expiry_unix":     idToken.Expiry.Unix(),
	})

	return auth.NewIdentity(providerName, claims.Subject, attrs),
		auth.Credential{Value: token.AccessToken, IssuedFor: claims.Subject},
		nil
}

// mergeProfile fills empty attributes from the userinfo endpoint. Display
// attributes are advisory, so failures are logged and otherwise ignored.
func (p *Provider) mergeProfile(ctx context.Context, token *oauth2.Token, subject string, attrs map[string]string) {
	svc, err := googleoauth2.NewService(ctx, option.WithTokenSource(p.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		logger.Warn("google userinfo client init failed", map[string]any{"error": err.Error()})
		return
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		logger.Warn("google userinfo lookup failed", map[string]any{"error": err.Error()})
		return
	}
	if info.Id != "" && info.Id != subject {
		logger.Warn("google userinfo subject mismatch", nil)
		return
	}

	fill := func(key, value string) {
		if attrs[key] == "" {
			attrs[key] = value
		}
	}
	fill(auth.AttrEmail, info.Email)
	fill(auth.AttrName, info.Name)
	fill(auth.AttrPicture, info.Picture)
}
