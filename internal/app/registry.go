package app

import (
	"database/sql"

	"pacs-portal/internal/attendance"
	"pacs-portal/internal/auth"
	"pacs-portal/internal/employee"
	"pacs-portal/internal/leave"
	"pacs-portal/internal/messaging/kafka"
	"pacs-portal/internal/middleware"
	"pacs-portal/internal/shared/counter"
	"pacs-portal/internal/ticket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	logger := zap.L()

	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Client-Type"},
		AllowCredentials: true,
	}))

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	ticketRepo := ticket.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo, counterRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, outboxRepo)
	ticketService := ticket.NewService(db, ticketRepo, counterRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	ticketHandler := ticket.NewHandlerWithRedis(ticketService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		employee.RegisterRoutes(api, employeeHandler, logger)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		ticket.RegisterRoutes(api, ticketHandler, rdb)
	}
}
