package ticket

import (
	"pacs-portal/internal/employee"
	"pacs-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	tickets := r.Group("/tickets")
	tickets.Use(middleware.AuthMiddleware())
	{
		tickets.POST("", middleware.RateLimitByUser(0.5, 3), middleware.Idempotency(rdb), h.Create)
		tickets.GET("", middleware.RateLimitByUser(2, 5), h.List)
		tickets.GET("/stats", middleware.RateLimitByUser(2, 5), h.GetStats)
		tickets.GET("/:id", middleware.RateLimitByUser(2, 5), h.GetByID)
		tickets.PATCH("/:id/status", middleware.RequireRoles(employee.RoleAdmin), h.UpdateStatus)
		tickets.PATCH("/:id/assign", middleware.RequireRoles(employee.RoleAdmin), h.Assign)
	}
}
