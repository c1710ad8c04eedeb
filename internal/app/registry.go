package app

import (
	"database/sql"

	"hrms/internal/attendance"
	"hrms/internal/conflict"
	"hrms/internal/dtr"
	"hrms/internal/leave"
	"hrms/internal/leavecredit"
	"hrms/internal/messaging/kafka"
	"hrms/internal/middleware"
	"hrms/internal/officialbusiness"
	"hrms/internal/overtime"
	"hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	creditRepo := leavecredit.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	officialBusinessRepo := officialbusiness.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// One detector shared by every scheduling check.
	detector := conflict.NewDetector(leaveRepo, officialBusinessRepo, attendanceRepo)

	// --- Services ---
	creditService := leavecredit.NewService(creditRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	leaveService := leave.NewService(db, leaveRepo, creditService, creditRepo, attendanceRepo, detector, outboxRepo)
	overtimeService := overtime.NewService(db, overtimeRepo, detector, outboxRepo)
	officialBusinessService := officialbusiness.NewService(officialBusinessRepo, detector)
	dtrService := dtr.NewService(dtr.NewProjector(attendanceRepo), rdb)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	creditHandler := leavecredit.NewHandler(creditService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	overtimeHandler := overtime.NewHandler(overtimeService)
	officialBusinessHandler := officialbusiness.NewHandler(officialBusinessService)
	dtrHandler := dtr.NewHandler(dtrService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, enforcer)
		leavecredit.RegisterRoutes(api, creditHandler, enforcer)
		leave.RegisterRoutes(api, leaveHandler, enforcer, rdb)
		overtime.RegisterRoutes(api, overtimeHandler, enforcer)
		officialbusiness.RegisterRoutes(api, officialBusinessHandler, enforcer)
		dtr.RegisterRoutes(api, dtrHandler, enforcer)
	}

	return nil
}
