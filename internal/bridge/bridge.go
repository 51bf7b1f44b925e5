package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oauth-bridge/internal/auth"
	"oauth-bridge/internal/credential"
	"oauth-bridge/internal/logger"
	"oauth-bridge/internal/metrics"
	"oauth-bridge/internal/notify"
)

var (
	ErrInvalidInput     = errors.New("bridge: identity and credential are required")
	ErrStoreUnavailable = errors.New("bridge: credential store unavailable")
)

const (
	DefaultStoreTimeout  = 3 * time.Second
	DefaultNotifyTimeout = notify.DefaultTimeout
)

type Bridge struct {
	store         credential.Store
	notifier      notify.Notifier
	metrics       *metrics.Metrics
	storeTimeout  time.Duration
	notifyTimeout time.Duration
}

type Option func(*Bridge)

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

func WithStoreTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.storeTimeout = d
		}
	}
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.notifyTimeout = d
		}
	}
}

func New(store credential.Store, notifier notify.Notifier, opts ...Option) *Bridge {
	b := &Bridge{
		store:         store,
		notifier:      notifier,
		storeTimeout:  DefaultStoreTimeout,
		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CompleteAuthentication persists cred for identity and then notifies the
// sink. It returns an error wrapping ErrStoreUnavailable if the write fails,
// in which case no notification is sent. Notification failures never
// produce an error.
func (b *Bridge) CompleteAuthentication(
	ctx context.Context,
	identity auth.Identity,
	cred auth.Credential,
) error {

	if identity.ExternalID == "" || cred.Value == "" {
		b.metrics.Authentication(metrics.OutcomeInvalid)
		return ErrInvalidInput
	}
	if cred.IssuedFor != "" && cred.IssuedFor != identity.ExternalID {
		b.metrics.Authentication(metrics.OutcomeInvalid)
		return fmt.Errorf("%w: credential issued for a different identity", ErrInvalidInput)
	}

	// The write is not tied to the inbound request: once the provider has
	// authorized, an aborted browser request must not cancel it halfway.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.storeTimeout)
	err := b.store.Set(storeCtx, identity.ExternalID, cred.Value)
	cancel()

	if err != nil {
		logger.Error("credential store write failed", map[string]any{
			"provider": identity.Provider,
			"user_id":  identity.ExternalID,
			"error":    err.Error(),
		})
		b.metrics.Authentication(metrics.OutcomeStoreFailed)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	logger.Info("credential stored", map[string]any{
		"provider": identity.Provider,
		"user_id":  identity.ExternalID,
		"key":      credential.Key(identity.ExternalID),
	})

	b.notify(ctx, identity)

	b.metrics.Authentication(metrics.OutcomeCompleted)
	return nil
}

func (b *Bridge) notify(ctx context.Context, identity auth.Identity) {
	ctx, cancel := context.WithTimeout(ctx, b.notifyTimeout)
	defer cancel()

	err := b.notifier.Notify(ctx, notify.Event{
		UserID:  identity.ExternalID,
		Message: notify.AuthenticatedMessage,
	})
	if err != nil {
		logger.Error("notification failed", map[string]any{
			"user_id": identity.ExternalID,
			"timeout": notify.IsTimeout(err),
			"error":   err.Error(),
		})
		b.metrics.Notification(metrics.OutcomeFailed)
		return
	}

	b.metrics.Notification(metrics.OutcomeDelivered)
}
