package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrms/internal/database"
	"hrms/internal/handler"
	"hrms/internal/middleware"
	"hrms/internal/rbac"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	employees := repository.NewEmployeeRepository(db)
	audit := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	tokens := token.NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, time.Hour)
	cache := rbac.NewCache(roles, rbac.DefaultTTL)
	authenticator := middleware.NewAuthenticator(tokens, users, cache)
	cookies := middleware.NewCookieWriter(false, 900, 3600)

	authService := service.NewAuthService(users, roles, employees, audit, tokens, txManager, bcrypt.MinCost)
	authHandler := handler.NewAuthHandler(authService, authenticator, cookies, middleware.NewRateLimiter(100, 100).Limit())

	router := gin.New()
	router.Use(middleware.ErrorHandler(false))
	authHandler.RegisterRoutes(router.Group(""))
	return router
}

func postJSON(router *gin.Engine, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cookieByName(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestRegisterSetsHTTPOnlyCookies(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/auth/register", `{"email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	access := cookieByName(t, w, middleware.AccessTokenCookie)
	assert.True(t, access.HttpOnly)
	refresh := cookieByName(t, w, middleware.RefreshTokenCookie)
	assert.True(t, refresh.HttpOnly)
	assert.NotEmpty(t, refresh.Value)
}

func TestLoginFailureEnvelope(t *testing.T) {
	router := newTestRouter(t)

	postJSON(router, "/auth/register", `{"email":"alice@example.com","password":"password123"}`)

	w := postJSON(router, "/auth/login", `{"email":"alice@example.com","password":"wrong-password"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Invalid credentials", body.Error)
}

func TestRefreshFromCookieRotatesPair(t *testing.T) {
	router := newTestRouter(t)

	reg := postJSON(router, "/auth/register", `{"email":"alice@example.com","password":"password123"}`)
	refresh := cookieByName(t, reg, middleware.RefreshTokenCookie)

	// Cookie-only request; both aliases serve the same rotation.
	for _, path := range []string{"/auth/refresh-token", "/auth/refresh"} {
		w := postJSON(router, path, "", refresh)
		require.Equalf(t, http.StatusOK, w.Code, "path %s", path)
		rotated := cookieByName(t, w, middleware.RefreshTokenCookie)
		assert.NotEmpty(t, rotated.Value)
	}
}

func TestRefreshWithoutToken(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Refresh token is required")
}

func TestLogoutClearsCookies(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	access := cookieByName(t, w, middleware.AccessTokenCookie)
	assert.Empty(t, access.Value)
	assert.Negative(t, access.MaxAge)
}

func TestProfileRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	reg := postJSON(router, "/auth/register", `{"email":"alice@example.com","password":"password123"}`)
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(reg.Body.Bytes(), &body))

	req = httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}
