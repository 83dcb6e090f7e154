package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"fantasy-book-hub/internal/auth"
)

func setupIdentifyRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identify(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "is_admin": identity.IsAdmin})
	})
	return r
}

func TestIdentifyValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := setupIdentifyRouter(tokens)

	token, err := tokens.Generate(9, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"user_id":9,"is_admin":false}`, rec.Body.String())
}

func TestIdentifyMissingHeaderIsAnonymous(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := setupIdentifyRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"anonymous":true}`, rec.Body.String())
}

func TestIdentifyBadTokenIsAnonymous(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := setupIdentifyRouter(tokens)

	for _, header := range []string{"Bearer garbage", "garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"anonymous":true}`, rec.Body.String())
	}
}

func TestIdentifyExpiredTokenIsAnonymous(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", -time.Minute)
	router := setupIdentifyRouter(tokens)

	token, err := tokens.Generate(9, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"anonymous":true}`, rec.Body.String())
}
