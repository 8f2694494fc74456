package middleware

import (
	"fmt"
	"net/http"
	"time"

	"pacs-portal/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency protects submission endpoints (tickets, leave requests)
// against double POSTs. A client that sends an Idempotency-Key gets the
// cached outcome on replay; a concurrent duplicate hits the lock and is
// told to wait.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			c.Data(http.StatusOK, "application/json", []byte(val))
			c.Abort()
			return
		}

		// Short expiry so a crashed request cannot wedge the key forever.
		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if err != nil {
			// Redis being down must not block submissions; this request
			// runs without idempotency protection.
			c.Next()
			return
		}

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    apperror.CodeProcessing,
				"message": "Your request is already being processed, please wait.",
			})
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
