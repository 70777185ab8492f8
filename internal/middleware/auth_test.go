package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"progressly/api/internal/security"
	"progressly/api/internal/session"
)

func newGateRouter(tokens *security.TokenService) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seenSubject string

	router := gin.New()
	router.GET("/protected", Auth(tokens), func(c *gin.Context) {
		if id, ok := SubjectID(c); ok {
			seenSubject = id
		}
		c.Status(http.StatusOK)
	})
	return router, &seenSubject
}

func TestAuth_ValidTokenAttachesSubject(t *testing.T) {
	tokens := security.NewTokenService("gate-secret", 24*time.Hour)
	router, seenSubject := newGateRouter(tokens)

	token, err := tokens.Issue("user-42")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "user-42", *seenSubject)
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	tokens := security.NewTokenService("gate-secret", 24*time.Hour)
	router, seenSubject := newGateRouter(tokens)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, *seenSubject)
}

func TestAuth_ExpiredTokenRejected(t *testing.T) {
	// Negative TTL issues a token already past its validity window.
	expiredIssuer := security.NewTokenService("gate-secret", -time.Hour)
	token, err := expiredIssuer.Issue("user-42")
	require.NoError(t, err)

	tokens := security.NewTokenService("gate-secret", 24*time.Hour)
	router, seenSubject := newGateRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, *seenSubject)
}

func TestAuth_TamperedTokenRejected(t *testing.T) {
	other := security.NewTokenService("other-secret", 24*time.Hour)
	token, err := other.Issue("user-42")
	require.NoError(t, err)

	tokens := security.NewTokenService("gate-secret", 24*time.Hour)
	router, _ := newGateRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
