package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redispkg "citizen-portal.backend/pkg/redis"
)

func startMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	prev := redispkg.GetClient()
	redispkg.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redispkg.SetClient(prev)
	})
	return srv
}

func newIdempotentRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyMiddleware())
	r.POST("/submit-passport", handler)
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit-passport", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_NoHeaderPassthrough(t *testing.T) {
	calls := 0
	r := newIdempotentRouter(func(c *gin.Context) { calls++; c.Status(http.StatusNoContent) })

	require.Equal(t, http.StatusNoContent, postWithKey(r, "").Code)
	require.Equal(t, http.StatusNoContent, postWithKey(r, "").Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	srv := startMiniRedis(t)

	calls := 0
	r := newIdempotentRouter(func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"success": true, "applicationId": "app-1"})
	})

	first := postWithKey(r, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := postWithKey(r, "key-1")
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	require.JSONEq(t, first.Body.String(), second.Body.String())
	require.Equal(t, 1, calls)

	ttl := srv.TTL("idempotency:POST:/submit-passport:key-1")
	require.Equal(t, RetentionDuration, ttl)
}

func TestIdempotencyMiddleware_FailureAllowsRetry(t *testing.T) {
	srv := startMiniRedis(t)

	calls := 0
	r := newIdempotentRouter(func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	require.Equal(t, http.StatusBadRequest, postWithKey(r, "key-2").Code)
	require.False(t, srv.Exists("idempotency:POST:/submit-passport:key-2"))
	require.Equal(t, http.StatusCreated, postWithKey(r, "key-2").Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_InProgressConflict(t *testing.T) {
	srv := startMiniRedis(t)
	require.NoError(t, srv.Set("idempotency:POST:/submit-passport:key-3", processingMarker))

	r := newIdempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
	w := postWithKey(r, "key-3")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "Request already in progress")
}

func TestIdempotencyMiddleware_WithHookedRedis(t *testing.T) {
	origReady, origGet, origSet, origSetNX, origDel := redisReady, redisGet, redisSet, redisSetNX, redisDel
	t.Cleanup(func() {
		redisReady, redisGet, redisSet, redisSetNX, redisDel = origReady, origGet, origSet, origSetNX, origDel
	})
	redisReady = func() bool { return true }
	redisSet = func(context.Context, string, interface{}, time.Duration) error { return nil }
	redisDel = func(context.Context, string) error { return nil }

	t.Run("store unavailable passes through", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", errors.New("redis down") }
		r := newIdempotentRouter(func(c *gin.Context) { c.Status(http.StatusAccepted) })
		require.Equal(t, http.StatusAccepted, postWithKey(r, "key-4").Code)
	})

	t.Run("lock error returns conflict", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", goredis.Nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, errors.New("boom") }
		r := newIdempotentRouter(func(c *gin.Context) { c.Status(http.StatusAccepted) })
		require.Equal(t, http.StatusConflict, postWithKey(r, "key-5").Code)
	})

	t.Run("unreadable record is discarded", func(t *testing.T) {
		deleted := false
		redisGet = func(context.Context, string) (string, error) { return "not json", nil }
		redisDel = func(context.Context, string) error { deleted = true; return nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return true, nil }
		r := newIdempotentRouter(func(c *gin.Context) { c.Status(http.StatusAccepted) })
		require.Equal(t, http.StatusAccepted, postWithKey(r, "key-6").Code)
		require.True(t, deleted)
	})
}

func TestIdempotencyMiddleware_WithoutRedis(t *testing.T) {
	prev := redispkg.GetClient()
	redispkg.SetClient(nil)
	t.Cleanup(func() { redispkg.SetClient(prev) })

	r := newIdempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
	require.Equal(t, http.StatusCreated, postWithKey(r, "key-7").Code)
}
