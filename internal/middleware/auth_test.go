package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrms/internal/database"
	"hrms/internal/middleware"
	"hrms/internal/model"
	"hrms/internal/rbac"
	"hrms/internal/repository"
	"hrms/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authFixture struct {
	db     *gorm.DB
	tokens *token.Service
	auth   *middleware.Authenticator
	router *gin.Engine
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	roles := repository.NewRoleRepository(db)
	users := repository.NewUserRepository(db)
	tokens := token.NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, time.Hour)
	auth := middleware.NewAuthenticator(tokens, users, rbac.NewCache(roles, rbac.DefaultTTL))

	return &authFixture{db: db, tokens: tokens, auth: auth, router: gin.New()}
}

// seedUser creates a role with the given permissions and one active user
// holding it, returning the user and a valid access token.
func (f *authFixture) seedUser(t *testing.T, email string, bypass bool, codes ...[2]string) (*model.User, string) {
	t.Helper()

	role := &model.Role{Name: email + "-role", IsBypass: bypass}
	for _, c := range codes {
		role.Permissions = append(role.Permissions, model.Permission{Resource: c[0], Action: c[1]})
	}
	require.NoError(t, f.db.Create(role).Error)

	user := &model.User{
		Email:        email,
		PasswordHash: "irrelevant",
		Status:       model.UserStatusActive,
		RoleID:       role.ID,
	}
	require.NoError(t, f.db.Create(user).Error)

	pair, err := f.tokens.IssuePair(user.ID.String(), user.Email, role.Name)
	require.NoError(t, err)
	return user, pair.AccessToken
}

func (f *authFixture) get(path, bearer string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	c.JSON(http.StatusOK, gin.H{"email": identity.Email})
}

func TestAuthenticateMissingToken(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/secure", f.auth.Authenticate(), okHandler)

	w := f.get("/secure", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided")
}

func TestAuthenticateMalformedAuthorizationHeader(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/secure", f.auth.Authenticate(), okHandler)

	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid authorization format", header)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/secure", f.auth.Authenticate(), okHandler)

	w := f.get("/secure", "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthenticateBearerHeader(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/secure", f.auth.Authenticate(), okHandler)

	_, access := f.seedUser(t, "alice@example.com", false)
	w := f.get("/secure", access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestAuthenticateCookieFallback(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/secure", f.auth.Authenticate(), okHandler)

	_, access := f.seedUser(t, "alice@example.com", false)
	w := f.get("/secure", "", &http.Cookie{Name: middleware.AccessTokenCookie, Value: access})
	assert.Equal(t, http.StatusOK, w.Code)
}

// A signed, unexpired token is not enough: the account's current status is
// read from the store on every request.
func TestAuthenticateDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/secure", f.auth.Authenticate(), okHandler)

	user, access := f.seedUser(t, "alice@example.com", false)

	w := f.get("/secure", access)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, f.db.Model(user).Update("status", model.UserStatusInactive).Error)

	w = f.get("/secure", access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found or inactive")
}

func TestRequirePermission(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/employees", f.auth.Authenticate(), middleware.RequirePermission("employees", "read"), okHandler)

	_, granted := f.seedUser(t, "hr@example.com", false, [2]string{"employees", "read"})
	w := f.get("/employees", granted)
	assert.Equal(t, http.StatusOK, w.Code)

	_, denied := f.seedUser(t, "staff@example.com", false, [2]string{"leaves", "write"})
	w = f.get("/employees", denied)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Missing permission: employees.read")
}

// Bypass roles pass every permission check without holding any codes.
func TestRequirePermissionBypassRole(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/employees", f.auth.Authenticate(), middleware.RequirePermission("employees", "read"), okHandler)

	_, access := f.seedUser(t, "root@example.com", true)
	w := f.get("/employees", access)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)
	f.router.GET("/ops", f.auth.Authenticate(), middleware.RequireRole("ops@example.com-role"), okHandler)

	_, access := f.seedUser(t, "ops@example.com", false)
	w := f.get("/ops", access)
	assert.Equal(t, http.StatusOK, w.Code)

	_, other := f.seedUser(t, "dev@example.com", false)
	w = f.get("/ops", other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	f := newAuthFixture(t)
	// Authorizer mounted without the authenticator in front.
	f.router.GET("/bare", middleware.RequirePermission("employees", "read"), okHandler)

	w := f.get("/bare", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
