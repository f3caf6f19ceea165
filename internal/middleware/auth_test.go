package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/forkful/backend/internal/middleware"
)

type stubValidator struct {
	userID uuid.UUID
}

func (v stubValidator) ValidateToken(token string) (*middleware.TokenClaims, error) {
	if token != "valid-token" {
		return nil, errors.New("invalid token")
	}
	return &middleware.TokenClaims{UserID: v.userID}, nil
}

func protectedRouter(validator middleware.TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(validator), func(c *gin.Context) {
		id, _ := middleware.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	r.GET("/open", middleware.OptionalAuthMiddleware(validator), func(c *gin.Context) {
		_, ok := middleware.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	return r
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter(stubValidator{userID: uuid.New()})

	assert.Equal(t, http.StatusOK, get(r, "/protected", "Bearer valid-token").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "Bearer bad-token").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "valid-token").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "Basic valid-token").Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := protectedRouter(stubValidator{userID: uuid.New()})

	w := get(r, "/open", "Bearer valid-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)

	w = get(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = get(r, "/open", "Bearer bad-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
