package attendance

import (
	"pacs-portal/internal/employee"
	"pacs-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	attendances.Use(middleware.ExtractUserID())
	{
		attendances.POST("/clock-in", h.ClockIn)
		attendances.POST("/clock-out", h.ClockOut)
		attendances.GET("/history", h.GetHistory)
		attendances.GET("/today", h.GetToday)
		attendances.GET("/today/summary", middleware.RequireRoles(employee.RoleAdmin), h.GetTodaySummary)
		attendances.GET("/today/records", middleware.RequireRoles(employee.RoleAdmin), h.GetTodayRecords)
	}
}
