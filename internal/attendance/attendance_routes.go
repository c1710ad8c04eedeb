package attendance

import (
	"hrms/internal/middleware"
	"hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer rbac.Enforcer,
) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		// Clocking is a once-a-day action; throttle per employee to absorb
		// double-submits from flaky clients.
		clockLimit := middleware.RateLimitByEmployee(rate.Limit(1), 5)
		attendances.POST("/clock-in", clockLimit, middleware.Authorize(enforcer, "attendance", "clock"), handler.ClockIn)
		attendances.POST("/clock-out", clockLimit, middleware.Authorize(enforcer, "attendance", "clock"), handler.ClockOut)
		attendances.GET("", middleware.Authorize(enforcer, "attendance", "read"), handler.GetAll)
	}
}
