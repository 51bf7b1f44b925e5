package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"oauth-bridge/internal/auth/handler"
	"oauth-bridge/internal/auth/provider"
	"oauth-bridge/internal/auth/provider/google"
	"oauth-bridge/internal/bridge"
	"oauth-bridge/internal/config"
	"oauth-bridge/internal/credential"
	"oauth-bridge/internal/metrics"
	"oauth-bridge/internal/middleware"
	"oauth-bridge/internal/notify"
	"oauth-bridge/internal/session"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Provider    provider.OAuthProvider
	Sessions    *session.Manager
	Credentials credential.Store
	Notifier    notify.Notifier
	Metrics     *metrics.Metrics
	Pinger      func(ctx context.Context) error

	NotificationTimeout time.Duration
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	googleProvider, err := google.New(ctx, google.Config{
		Issuer:       cfg.OAuthIssuer,
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RedirectURL:  cfg.CallbackURL,
		ExtraScopes:  cfg.ExtraScopes(),
		FetchProfile: cfg.OAuthFetchProfile,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	notifier, err := notify.NewHTTPNotifier(cfg.NotificationURL, cfg.NotificationTimeout)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router := NewRouter(Deps{
		Provider: googleProvider,
		Sessions: session.NewManager(cfg.SessionSecret, session.CookieOptions{
			Secure: cfg.SessionSecureCookie,
		}),
		Credentials:         credential.NewRedisStore(infra.Redis.Client),
		Notifier:            notifier,
		Metrics:             metrics.New(),
		Pinger:              func(ctx context.Context) error { return infra.Redis.Ping(ctx).Err() },
		NotificationTimeout: cfg.NotificationTimeout,
	})

	return router, infra.Close, nil
}

// NewRouter wires the HTTP surface. It performs no I/O.
func NewRouter(d Deps) *gin.Engine {

	// ----------------------------
	// Dependencies
	// ----------------------------

	authBridge := bridge.New(
		d.Credentials,
		d.Notifier,
		bridge.WithMetrics(d.Metrics),
		bridge.WithNotifyTimeout(d.NotificationTimeout),
	)

	authHandler := handler.NewHandler(d.Provider, d.Sessions, authBridge)
	authMiddleware := middleware.NewAuthMiddleware(d.Sessions)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/", func(c *gin.Context) {
		if userID, ok := d.Sessions.UserID(c.Request); ok {
			c.String(http.StatusOK, "Hello World! Signed in as %s", userID)
			return
		}
		c.String(http.StatusOK, "Hello World!")
	})

	router.GET("/health", func(c *gin.Context) {
		if d.Pinger != nil {
			if err := d.Pinger(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.UserIDFromContext(c.Request.Context())

		_, err := d.Credentials.Get(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"user_id": userID, "credential_cached": true})
		case errors.Is(err, credential.ErrNotFound):
			c.JSON(http.StatusOK, gin.H{"user_id": userID, "credential_cached": false})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "credential store unavailable"})
		}
	})

	return router
}
