package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/interfaces/http/response"
	"citizen-portal.backend/pkg/logger"
	"citizen-portal.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisReady = redis.Ready
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

// IdempotencyMiddleware replays the stored response when a client retries a request with the
// same Idempotency-Key. Without redis it passes requests through.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || !redisReady() {
			c.Next()
			return
		}

		storageKey := "idempotency:" + c.Request.Method + ":" + c.FullPath() + ":" + key
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			if val == processingMarker {
				response.Abort(c, http.StatusConflict, domainerrors.CodeConflict, "Request already in progress")
				return
			}
			var cached cachedResponse
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr != nil || cached.Status == 0 {
				logger.Warn(ctx, "Discarding unreadable idempotency record", zap.String("key", storageKey))
				_ = redisDel(ctx, storageKey)
				break
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(cached.Status, cached.ContentType, []byte(cached.Body))
			c.Abort()
			return
		case errors.Is(err, goredis.Nil):
		default:
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			response.Abort(c, http.StatusConflict, domainerrors.CodeConflict, "Request already in progress")
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			// allow the client to retry
			_ = redisDel(ctx, storageKey)
			return
		}
		record, _ := json.Marshal(cachedResponse{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.body.String(),
		})
		if err := redisSet(ctx, storageKey, string(record), RetentionDuration); err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
		}
	}
}
