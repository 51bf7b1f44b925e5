package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"oauth-bridge/internal/config"
	"oauth-bridge/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// App owns the HTTP server and the connections it was built on.
type App struct {
	server  *http.Server
	cleanup func() error
}

// New connects to the credential store, discovers the identity provider and
// builds the router. Any failure here means the process must not serve.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		server: &http.Server{
			Addr:              cfg.ListenAddr(),
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
		cleanup: cleanup,
	}, nil
}

// Run serves until Shutdown. A nil return means a clean stop.
func (a *App) Run() error {
	logger.Info("http server listening", map[string]any{"addr": a.server.Addr})
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and then releases the store connection.
func (a *App) Shutdown(ctx context.Context) error {
	return errors.Join(a.server.Shutdown(ctx), a.closeInfra())
}

func (a *App) closeInfra() error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}
