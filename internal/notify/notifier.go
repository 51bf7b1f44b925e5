// Package notify delivers best-effort webhook notifications about completed
// authentications. Delivery is a single POST with no retry.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"oauth-bridge/internal/logger"

	"github.com/google/uuid"
)

// AuthenticatedMessage is the message sent for every successful login.
const AuthenticatedMessage = "User authenticated with Google OAuth"

const (
	DefaultTimeout  = 5 * time.Second
	maxResponseSize = 1 << 20
	RequestIDHeader = "X-Request-Id"
)

// Event is the JSON body posted to the sink.
type Event struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// Notifier delivers one event. Implementations must honor ctx cancellation.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Error is returned when the sink answers with a non-2xx status.
type Error struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("notify: HTTP %d from %s: %s", e.StatusCode, e.URL, e.Message)
}

type HTTPNotifier struct {
	url    string
	client *http.Client
}

// NewHTTPNotifier posts events to target. A zero timeout uses DefaultTimeout.
func NewHTTPNotifier(target string, timeout time.Duration) (*HTTPNotifier, error) {
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, fmt.Errorf("notify: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("notify: unsupported url scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPNotifier{
		url:    target,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (n *HTTPNotifier) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("notify: failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Error{
			StatusCode: res.StatusCode,
			URL:        n.url,
			Message:    preview(data),
		}
	}

	// The sink's reply is informational only.
	var reply any
	if err := json.Unmarshal(data, &reply); err != nil {
		logger.Warn("notification response is not json", map[string]any{
			"request_id": requestID,
			"status":     res.StatusCode,
			"error":      err.Error(),
		})
		return nil
	}

	logger.Info("notification delivered", map[string]any{
		"request_id": requestID,
		"user_id":    ev.UserID,
		"status":     res.StatusCode,
		"response":   reply,
	})
	return nil
}

// IsTimeout reports whether err came from the notification deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func preview(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
