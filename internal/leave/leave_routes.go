package leave

import (
	"hrms/internal/middleware"
	"hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer rbac.Enforcer,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.Authorize(enforcer, "leave", "create"), handler.Create)
		leaves.GET("", middleware.Authorize(enforcer, "leave", "read_all"), handler.GetAll)
		leaves.GET("/mine", middleware.Authorize(enforcer, "leave", "read"), handler.GetMine)
		leaves.GET("/:id", middleware.Authorize(enforcer, "leave", "read"), handler.GetByID)
		leaves.PUT("/:id", middleware.Authorize(enforcer, "leave", "edit"), handler.Update)
		leaves.DELETE("/:id", middleware.Authorize(enforcer, "leave", "cancel"), handler.Cancel)
		leaves.POST("/:id/approve", middleware.Authorize(enforcer, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.Authorize(enforcer, "leave", "reject"), handler.Reject)
		leaves.POST("/:id/revoke", middleware.Authorize(enforcer, "leave", "revoke"), handler.Revoke)

		if redisClient != nil {
			leaves.POST("/bulk-approve",
				middleware.Authorize(enforcer, "leave", "approve"),
				middleware.Idempotency(redisClient),
				handler.BulkApprove,
			)
		} else {
			leaves.POST("/bulk-approve", middleware.Authorize(enforcer, "leave", "approve"), handler.BulkApprove)
		}
	}
}
