package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/router"
	"github.com/forkful/backend/internal/testhelpers"
)

// testImage is a 1-byte payload wrapped as a data URI; the image service
// does not inspect pixel data.
const testImage = "data:image/png;base64,iQ=="

func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	cfg := &config.Config{
		JWTSecret: "test-secret",
		MediaDir:  t.TempDir(),
	}
	return router.SetupRouter(cfg, db, nil, nil), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var (
	userSeq  uint32
	colorSeq uint32
)

// nextColor hands out a fresh hex color; tag colors are unique.
func nextColor() string {
	return fmt.Sprintf("#%06X", atomic.AddUint32(&colorSeq, 1))
}

// registerUser registers a fresh user over HTTP and returns its id and token.
func registerUser(t *testing.T, r *gin.Engine, name string) (string, string) {
	t.Helper()

	n := atomic.AddUint32(&userSeq, 1)
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      fmt.Sprintf("%s%d@example.com", name, n),
		"username":   fmt.Sprintf("%s%d", name, n),
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	return user["id"].(string), body["token"].(string)
}
