package middleware

import (
	"net/http"

	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole admits only identities whose role name is in the allow list.
// Assumes Authenticate already ran; a missing identity is a 401, not a 403.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			abortUnauthorized(c, "No token provided")
			return
		}

		for _, role := range allowed {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Insufficient permissions"))
	}
}

// RequirePermission admits identities holding "resource.action". Holders of
// a bypass role pass unconditionally, whatever their assigned set contains.
// Pure function of the attached identity; no store access.
func RequirePermission(resource, action string) gin.HandlerFunc {
	code := resource + "." + action
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			abortUnauthorized(c, "No token provided")
			return
		}

		if identity.IsBypass || identity.HasPermission(code) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Missing permission: "+code))
	}
}
