package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinUserIDKey is the gin context key holding the signed-in external id.
const GinUserIDKey = "user_id"

// GinRequireAuth rejects requests without a signed-in session. The external
// id is placed on both the request context and the gin context.
func GinRequireAuth(a *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := a.authenticate(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Request = r
		userID, _ := UserIDFromContext(r.Context())
		c.Set(GinUserIDKey, userID)
		c.Next()
	}
}
