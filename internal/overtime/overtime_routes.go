package overtime

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
	overtimes := r.Group("/overtimes")
	overtimes.Use(middleware.AuthMiddleware())
	{
		overtimes.POST("", middleware.Authorize(enforcer, "overtime", "create"), handler.Create)
		overtimes.GET("", middleware.Authorize(enforcer, "overtime", "read_all"), handler.GetAll)
		overtimes.GET("/mine", middleware.Authorize(enforcer, "overtime", "read"), handler.GetMine)
		overtimes.GET("/:id", middleware.Authorize(enforcer, "overtime", "read"), handler.GetByID)
		overtimes.PUT("/:id", middleware.Authorize(enforcer, "overtime", "edit"), handler.Update)
		overtimes.DELETE("/:id", middleware.Authorize(enforcer, "overtime", "cancel"), handler.Cancel)
		overtimes.POST("/:id/approve", middleware.Authorize(enforcer, "overtime", "approve"), handler.Approve)
		overtimes.POST("/:id/reject", middleware.Authorize(enforcer, "overtime", "reject"), handler.Reject)
		overtimes.POST("/bulk-approve", middleware.Authorize(enforcer, "overtime", "approve"), handler.BulkApprove)
	}
}
