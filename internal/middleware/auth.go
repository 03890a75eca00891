package middleware

import (
	"errors"
	"net/http"
	"strings"

	"hrms/internal/rbac"
	"hrms/internal/repository"
	"hrms/internal/token"
	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const identityKey = "identity"

// Identity is the request-scoped resolved identity: built fresh from the
// store on every authenticated request, never cached across requests.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Role        string
	IsBypass    bool
	Permissions map[string]struct{}
	EmployeeID  *uuid.UUID
}

// HasPermission reports whether the flattened set contains the code. Bypass
// handling is the authorizer's job, not this set's.
func (id *Identity) HasPermission(code string) bool {
	_, ok := id.Permissions[code]
	return ok
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(c *gin.Context) (*Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok
}

// Authenticator verifies bearer tokens and resolves identities. All
// dependencies are injected at construction; there is no package state.
type Authenticator struct {
	tokens *token.Service
	users  repository.UserRepository
	perms  *rbac.Cache
}

func NewAuthenticator(tokens *token.Service, users repository.UserRepository, perms *rbac.Cache) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, perms: perms}
}

// Authenticate extracts and verifies the access token, loads the user fresh
// from the store, and attaches the resolved identity. Failures short-circuit
// with 401; there is nothing transient to retry.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			abortUnauthorized(c, "Invalid authorization format. Expected 'Bearer <token>'")
			return
		}
		if tokenString == "" {
			abortUnauthorized(c, "No token provided")
			return
		}

		claims, err := a.tokens.VerifyAccess(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := a.users.GetWithAccess(c.Request.Context(), claims.Subject)
		if err != nil || !user.IsActive() {
			abortUnauthorized(c, "User not found or inactive")
			return
		}

		codes, err := a.perms.Codes(c.Request.Context(), user.RoleID.String())
		if err != nil {
			abortUnauthorized(c, "User not found or inactive")
			return
		}

		identity := &Identity{
			UserID:      user.ID,
			Email:       user.Email,
			Role:        user.Role.Name,
			IsBypass:    user.Role.IsBypass,
			Permissions: make(map[string]struct{}, len(codes)),
		}
		for _, code := range codes {
			identity.Permissions[code] = struct{}{}
		}
		if user.Employee != nil {
			id := user.Employee.ID
			identity.EmployeeID = &id
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

var errBadAuthFormat = errors.New("authorization header is not of the form Bearer <token>")

// extractToken reads the bearer token from the Authorization header, with
// the access-token cookie as fallback for browser clients. A header that is
// present but malformed is an error, not an absent token.
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1], nil
		}
		return "", errBadAuthFormat
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie, nil
	}
	return "", nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, message))
}
