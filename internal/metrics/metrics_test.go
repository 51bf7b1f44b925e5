package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Authentication(OutcomeCompleted)
	m.Authentication(OutcomeCompleted)
	m.Authentication(OutcomeStoreFailed)
	m.Notification(OutcomeFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authentications.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authentications.WithLabelValues(OutcomeStoreFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.notifications.WithLabelValues(OutcomeDelivered)))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Authentication(OutcomeCompleted)
		m.Notification(OutcomeDelivered)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Authentication(OutcomeCompleted)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `oauth_bridge_authentications_total{outcome="completed"} 1`)
}
