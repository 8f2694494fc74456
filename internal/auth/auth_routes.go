package auth

import (
	"pacs-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/setup", middleware.RateLimitByIP(0.05, 2), handler.Setup)
		auth.POST("/refresh", handler.RefreshToken)
		auth.POST("/logout", handler.Logout)
	}
}
