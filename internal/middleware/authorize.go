package middleware

import (
	"net/http"

	"leavetrack/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RoleEnforcer is a local interface so any service with a matching Enforce
// method satisfies the middleware.
type RoleEnforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

// Authorize is the single capability check every protected operation passes
// through: the authenticated role must hold resource:action.
func Authorize(service RoleEnforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
