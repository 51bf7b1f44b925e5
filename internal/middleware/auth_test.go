package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"oauth-bridge/internal/logger"
	"oauth-bridge/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signedInCookie(t *testing.T, m *session.Manager, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), userID))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[len(cookies)-1]
}

func newRouter(m *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	api := r.Group("/api")
	api.Use(GinRequireAuth(NewAuthMiddleware(m)))
	api.GET("/me", func(c *gin.Context) {
		id, ok := UserIDFromContext(c.Request.Context())
		if !ok || c.GetString(GinUserIDKey) != id {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func TestGinRequireAuth(t *testing.T) {
	m := session.NewManager(testSecret, session.CookieOptions{})
	r := newRouter(m)

	t.Run("no session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("signed in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(signedInCookie(t, m, "g-123"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":"g-123"}`, rec.Body.String())
	})
}

func TestRequestLogger_OmitsQuery(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.Init("info") })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom?code=secret", nil))

	assert.Contains(t, buf.String(), `"path":"/boom"`)
	assert.NotContains(t, buf.String(), "secret")
}
