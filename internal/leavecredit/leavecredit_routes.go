package leavecredit

import (
	"hrms/internal/middleware"
	"hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer rbac.Enforcer,
) {
	credits := r.Group("/credits")
	credits.Use(middleware.AuthMiddleware())
	{
		credits.GET("", middleware.Authorize(enforcer, "credit", "read"), handler.GetMine)
		credits.GET("/:employeeId", middleware.Authorize(enforcer, "credit", "read_all"), handler.GetByEmployee)
		credits.POST("/:employeeId/reset", middleware.Authorize(enforcer, "credit", "reset"), handler.Reset)
	}
}
