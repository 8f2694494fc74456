package leave

import (
	"encoding/json"
	"net/http"
	"time"

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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis completes the idempotency protocol on Submit: the
// lock set by the middleware is released when the request finishes and
// the successful response body is cached for replay.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func userIDFromContext(c *gin.Context) (string, bool) {
	rawID, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := rawID.(string)
	return id, ok && id != ""
}

func (h *Handler) Submit(c *gin.Context) {
	employeeID, ok := userIDFromContext(c)
	if !ok {
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

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.Submit(c.Request.Context(), employeeID, req)
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

func (h *Handler) GetHistory(c *gin.Context) {
	employeeID, ok := userIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.GetHistory(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) GetPending(c *gin.Context) {
	res, err := h.service.GetPending(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	reviewerID, ok := userIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.Approve(c.Request.Context(), c.Param("id"), reviewerID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	reviewerID, ok := userIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.Reject(c.Request.Context(), c.Param("id"), reviewerID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}
