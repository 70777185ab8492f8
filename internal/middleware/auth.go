package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progressly/api/internal/security"
	"progressly/api/internal/session"
)

const subjectKey = "auth_subject_id"

// Auth guards protected routes: it extracts the session cookie, verifies
// the token and attaches the resolved subject id to the request context.
// A missing or invalid token rejects the request before any handler runs.
func Auth(tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := session.TokenFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, please sign in"})
			return
		}

		subjectID, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, please sign in"})
			return
		}

		c.Set(subjectKey, subjectID)
		c.Next()
	}
}

// SubjectID returns the verified user id the gate attached to the request.
func SubjectID(c *gin.Context) (string, bool) {
	v, exists := c.Get(subjectKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
