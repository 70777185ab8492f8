package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the single carrier binding a token to the client; every
// flow, including the auth gate, reads this cookie.
const CookieName = "token"

// Attach binds the token to the response as a protected cookie expiring
// with the token itself.
func Attach(c *gin.Context, token string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// Clear overwrites the cookie with an empty value and a past expiry,
// invalidating the session client-side. The server keeps no state.
func Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// TokenFrom reads the carried token off the request, reporting false when
// the cookie is absent or empty.
func TokenFrom(c *gin.Context) (string, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}
