package dtr

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
	records := r.Group("/dtr")
	records.Use(middleware.AuthMiddleware())
	{
		records.GET("/monthly", middleware.Authorize(enforcer, "dtr", "read"), handler.GetMonthly)
		records.GET("/range", middleware.Authorize(enforcer, "dtr", "read"), handler.GetRange)
		records.GET("/export", middleware.Authorize(enforcer, "dtr", "export"), handler.Export)
	}
}
