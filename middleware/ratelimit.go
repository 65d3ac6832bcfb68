package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// checkRateLimit counts one hit against rl:<resource>:<id> and reports
// whether the caller is still under limit. It fails open: a nil client or a
// redis error never blocks a request.
func checkRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces `limit` requests per `window`, keyed by authenticated
// user id when present, otherwise by client IP.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if uid := c.GetString("userId"); uid != "" {
			id = "user:" + uid
		} else {
			id = "ip:" + c.ClientIP()
		}

		resource := c.FullPath()
		if resource == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := checkRateLimit(c.Request.Context(), rdb, resource, id, limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
