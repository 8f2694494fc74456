package ticket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pacs-portal/internal/employee"
	"pacs-portal/internal/shared/apperror"
	"pacs-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ticket.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ticket.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis completes the idempotency protocol on Create: the
// lock set by the middleware is released when the request finishes and
// the successful response body is cached for replay.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("ticket request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorFromContext(c *gin.Context) (actorID string, isAdmin bool, err error) {
	rawID, ok := c.Get("user_id")
	if !ok {
		return "", false, errors.New("user id missing from context")
	}
	id, ok := rawID.(string)
	if !ok || id == "" {
		return "", false, errors.New("user id missing from context")
	}
	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return id, roleStr == employee.RoleAdmin, nil
}

func (h *Handler) Create(c *gin.Context) {
	actorID, _, err := actorFromContext(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")
	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// The middleware replays the cached bytes verbatim, so what gets
	// cached is the same envelope the first caller received.
	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(response.ApiEnvelope{Ok: true, Data: res}); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) List(c *gin.Context) {
	actorID, isAdmin, err := actorFromContext(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.List(c.Request.Context(), actorID, isAdmin)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	actorID, isAdmin, err := actorFromContext(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), c.Param("id"), actorID, isAdmin)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) GetStats(c *gin.Context) {
	actorID, isAdmin, err := actorFromContext(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.GetStats(c.Request.Context(), actorID, isAdmin)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}
