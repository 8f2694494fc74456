package leave

import (
	"pacs-portal/internal/employee"
	"pacs-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	leaves := r.Group("/leave-requests")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RateLimitByUser(0.5, 3), middleware.Idempotency(rdb), h.Submit)
		leaves.GET("", middleware.RateLimitByUser(2, 5), h.GetHistory)
		leaves.GET("/pending", middleware.RequireRoles(employee.RoleAdmin), h.GetPending)
		leaves.POST("/:id/approve", middleware.RequireRoles(employee.RoleAdmin), h.Approve)
		leaves.POST("/:id/reject", middleware.RequireRoles(employee.RoleAdmin), h.Reject)
	}
}
