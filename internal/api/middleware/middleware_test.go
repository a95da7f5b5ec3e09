package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/repository/mock"
	"github.com/linskybing/scan2cad/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupJWT(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JwtSecret = "middleware-secret"
	config.Issuer = "scan2cad-test"
	Init()
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	setupJWT(t)
	tok, err := GenerateToken(7, "jane@example.com", true, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "scan2cad-test", claims.Issuer)

	jwtKey = []byte("another-secret")
	_, err = ParseToken(tok)
	assert.Error(t, err)
}

func TestJWTAuthMiddleware(t *testing.T) {
	setupJWT(t)
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(), func(c *gin.Context) {
		uid, err := utils.GetUserIDFromContext(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"id": uid})
	})

	valid, err := GenerateToken(7, "jane@example.com", false, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(7, "jane@example.com", false, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+valid)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: valid})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me?token="+valid, nil)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestAdminAndSelfOrAdmin(t *testing.T) {
	setupJWT(t)
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepo(ctrl)
	users.EXPECT().GetByID(uint(1)).Return(user.User{ID: 1, Role: user.RoleAdmin}, nil).AnyTimes()
	users.EXPECT().GetByID(uint(7)).Return(user.User{ID: 7, Role: user.RoleUser}, nil).AnyTimes()
	users.EXPECT().GetByID(uint(8)).Return(user.User{}, gorm.ErrRecordNotFound).AnyTimes()
	users.EXPECT().GetByID(uint(9)).Return(user.User{}, errors.New("db down")).AnyTimes()
	auth := NewAuth(&repository.Repos{User: users})

	r := gin.New()
	r.Use(JWTAuthMiddleware())
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/admin", auth.Admin(), ok)
	r.GET("/users/:id", auth.SelfOrAdmin(), ok)

	call := func(uid uint, path string) int {
		tok, err := GenerateToken(uid, "x@example.com", false, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusNoContent, call(1, "/admin"))
	assert.Equal(t, http.StatusForbidden, call(7, "/admin"))
	assert.Equal(t, http.StatusForbidden, call(8, "/admin"))
	assert.Equal(t, http.StatusInternalServerError, call(9, "/admin"))

	assert.Equal(t, http.StatusNoContent, call(7, "/users/7"))
	assert.Equal(t, http.StatusNoContent, call(1, "/users/7"))
	assert.Equal(t, http.StatusForbidden, call(7, "/users/1"))
	assert.Equal(t, http.StatusBadRequest, call(7, "/users/abc"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AllowedOrigins = []string{"http://localhost:"}
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Upgrade", "websocket")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}
