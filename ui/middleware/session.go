package middleware

import (
	"goincome/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the session ID
const SessionKey = "sessionID"

// EnsureSession issues the session cookie when missing and exposes the ID
// both on the gin context and on the request context, so handlers mounted
// with gin.WrapH see the same session.
func EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := session.Ensure(c.Writer, c.Request)
		c.Set(SessionKey, id)
		c.Request = c.Request.WithContext(session.WithID(c.Request.Context(), id))
		c.Next()
	}
}

// SessionID returns the ID set by EnsureSession
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
