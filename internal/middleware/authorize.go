package middleware

import (
	"net/http"

	"hrms/internal/rbac"
	"hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize is the single capability check performed at the entry of each
// operation. It reads the role resolved by AuthMiddleware and asks the
// enforcer whether the role may perform action on resource.
func Authorize(enforcer rbac.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				resource+":"+action,
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
