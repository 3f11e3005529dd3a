package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MIKU-7437/astrawood/config"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 24,
	}
	util.InitLogger("error")
	os.Exit(m.Run())
}

func newProtectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id")})
	})
	return r
}

// TestAuthMiddleware 有效令牌放行并写入用户ID
func TestAuthMiddleware(t *testing.T) {
	r := newProtectedRouter()

	token, err := util.GenerateAccessToken(42)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 42}`, w.Body.String())
}

// TestAuthMiddlewareMissingHeader 缺失认证头返回401
func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthMiddlewareBadFormat 非Bearer格式返回401
func TestAuthMiddlewareBadFormat(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthMiddlewareInvalidToken 伪造令牌返回401
func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
