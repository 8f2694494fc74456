package attendance

import (
	"net/http"

	"pacs-portal/internal/shared/apperror"
	"pacs-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func getActorID(c *gin.Context) string {
	employeeID := c.GetString("employee_id")
	if employeeID == "" {
		employeeID = c.GetString("user_id_validated")
	}
	return employeeID
}

func (h *Handler) ClockIn(c *gin.Context) {
	employeeID := getActorID(c)

	var req ClockInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.ClockIn(c.Request.Context(), employeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	employeeID := getActorID(c)

	var req ClockOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.ClockOut(c.Request.Context(), employeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetHistory(c *gin.Context) {
	employeeID := getActorID(c)

	resp, err := h.service.GetHistory(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetToday(c *gin.Context) {
	employeeID := getActorID(c)

	resp, err := h.service.GetToday(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTodaySummary(c *gin.Context) {
	resp, err := h.service.GetTodaySummary(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTodayRecords(c *gin.Context) {
	resp, err := h.service.GetTodayRecords(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
