package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"oauth-bridge/internal/auth"
	"oauth-bridge/internal/auth/provider"
	"oauth-bridge/internal/bridge"
	"oauth-bridge/internal/logger"
	"oauth-bridge/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// Failure reasons reported to /login.
const (
	ReasonProviderError    = "provider_error"
	ReasonInvalidState     = "invalid_state"
	ReasonMissingCode      = "missing_code"
	ReasonExchangeFailed   = "exchange_failed"
	ReasonStoreUnavailable = "store_unavailable"
	ReasonInternal         = "internal"
)

const (
	LoginPath   = "/login"
	SuccessPath = "/"
)

// Completer receives every successful authentication.
type Completer interface {
	CompleteAuthentication(ctx context.Context, identity auth.Identity, cred auth.Credential) error
}

type Handler struct {
	provider provider.OAuthProvider
	sessions *session.Manager
	bridge   Completer
}

func NewHandler(
	p provider.OAuthProvider,
	sessions *session.Manager,
	bridge Completer,
) *Handler {
	return &Handler{
		provider: p,
		sessions: sessions,
		bridge:   bridge,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/auth/start", h.start)
	r.GET("/auth/callback", h.callback)
	r.POST("/auth/logout", h.logout)
	r.GET(LoginPath, h.loginPage)
}

func (h *Handler) start(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		logger.Error("failed to generate oauth state", map[string]any{"error": err.Error()})
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	verifier := oauth2.GenerateVerifier()

	if err := h.sessions.BeginFlow(c.Writer, c.Request, state, verifier); err != nil {
		logger.Error("failed to save oauth flow", map[string]any{"error": err.Error()})
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state, verifier))
}

func (h *Handler) callback(c *gin.Context) {
	expectedState, verifier, err := h.sessions.TakeFlow(c.Writer, c.Request)
	if err != nil {
		logger.Warn("oauth callback without pending flow", map[string]any{
			"provider": h.provider.Name(),
			"error":    err.Error(),
		})
		h.fail(c, ReasonInvalidState)
		return
	}

	if !stateMatches(expectedState, c.Query("state")) {
		logger.Warn("oauth callback state mismatch", map[string]any{
			"provider": h.provider.Name(),
		})
		h.fail(c, ReasonInvalidState)
		return
	}

	// The provider reports denied consent and similar failures here.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": h.provider.Name(),
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		h.fail(c, ReasonProviderError)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Warn("oauth callback missing code and error", nil)
		h.fail(c, ReasonMissingCode)
		return
	}

	identity, cred, err := h.provider.ExchangeCode(c.Request.Context(), code, verifier)
	if err != nil {
		logger.Warn("oauth code exchange failed", map[string]any{
			"provider": h.provider.Name(),
			"error":    err.Error(),
		})
		h.fail(c, ReasonExchangeFailed)
		return
	}

	if err := h.bridge.CompleteAuthentication(c.Request.Context(), identity, cred); err != nil {
		reason := ReasonInternal
		if errors.Is(err, bridge.ErrStoreUnavailable) {
			reason = ReasonStoreUnavailable
		}
		logger.Error("authentication could not be completed", map[string]any{
			"provider": h.provider.Name(),
			"user_id":  identity.ExternalID,
			"error":    err.Error(),
		})
		h.fail(c, reason)
		return
	}

	if err := h.sessions.SignIn(c.Writer, c.Request, identity.ExternalID); err != nil {
		logger.Error("failed to save session", map[string]any{"error": err.Error()})
		h.fail(c, ReasonInternal)
		return
	}

	logger.Info("login success", map[string]any{
		"provider": h.provider.Name(),
		"user_id":  identity.ExternalID,
		"ip":       c.ClientIP(),
	})

	c.Redirect(http.StatusFound, SuccessPath)
}

func (h *Handler) logout(c *gin.Context) {
	if userID, ok := h.sessions.UserID(c.Request); ok {
		logger.Info("logout", map[string]any{
			"user_id": userID,
			"ip":      c.ClientIP(),
		})
	}

	if err := h.sessions.Clear(c.Writer, c.Request); err != nil {
		logger.Error("failed to clear session", map[string]any{"error": err.Error()})
	}

	// Idempotent response
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, LoginPath+"?error="+url.QueryEscape(reason))
}
