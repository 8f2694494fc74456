package employee

import (
	"pacs-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RequireRoles(RoleAdmin),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByUser(5, 20),
			handler.GetOptions,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RequireRoles(RoleAdmin),
			handler.GetById,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RequireRoles(RoleAdmin),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRoles(RoleAdmin),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RequireRoles(RoleAdmin),
			handler.Delete,
		)
	}
}
