package middleware

import (
	"context"
	"net/http"

	"oauth-bridge/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user's external id from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

type AuthMiddleware struct {
	Sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

// authenticate returns r carrying the signed-in external id, or false when
// the request has no valid session.
func (a *AuthMiddleware) authenticate(r *http.Request) (*http.Request, bool) {
	userID, ok := a.Sessions.UserID(r)
	if !ok {
		return r, false
	}
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID)), true
}
