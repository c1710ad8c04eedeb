package officialbusiness

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
	requests := r.Group("/official-business")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", middleware.Authorize(enforcer, "official_business", "create"), handler.Create)
		requests.GET("", middleware.Authorize(enforcer, "official_business", "read_all"), handler.GetAll)
		requests.GET("/mine", middleware.Authorize(enforcer, "official_business", "read"), handler.GetMine)
		requests.GET("/:id", middleware.Authorize(enforcer, "official_business", "read"), handler.GetByID)
		requests.PUT("/:id", middleware.Authorize(enforcer, "official_business", "edit"), handler.Update)
		requests.DELETE("/:id", middleware.Authorize(enforcer, "official_business", "cancel"), handler.Cancel)
		requests.POST("/:id/approve", middleware.Authorize(enforcer, "official_business", "approve"), handler.Approve)
		requests.POST("/:id/reject", middleware.Authorize(enforcer, "official_business", "reject"), handler.Reject)
	}
}
