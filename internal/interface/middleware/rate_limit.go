package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/devconnector-api/pkg/response"
)

const rateLimitedMsg = "Too many requests, please try again later"

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// normalizePath prefers the route pattern so /api/posts/:id shares one bucket.
func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc names the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

// KeyByIPAndPath charges anonymous routes per client and route.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID charges guarded routes per account. Mount it after Auth.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

// AllowFunc exempts a request from counting.
type AllowFunc func(*gin.Context) bool

// hitScript increments KEYS[1] and starts its window on the first hit.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type window struct {
	count int
	reset int // seconds until the counter expires
}

func hit(c *gin.Context, rdb *redis.Client, key string, size time.Duration) (window, error) {
	ctx := c.Request.Context()
	n, err := hitScript.Run(ctx, rdb, []string{key}, size.Milliseconds()).Int()
	if err != nil {
		return window{}, err
	}
	w := window{count: n}
	if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		w.reset = int(ttl.Seconds())
	}
	return w, nil
}

// RateLimit allows limit requests per key in each fixed window. A nil client
// or a non-positive limit disables it; Redis errors let the request through.
func RateLimit(rdb *redis.Client, limit int, size time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || size <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		w, err := hit(c, rdb, keyFn(c), size)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-w.count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(w.reset))
		if w.count <= limit {
			c.Next()
			return
		}
		if w.reset > 0 {
			c.Header("Retry-After", strconv.Itoa(w.reset))
		}
		response.Msg(c, http.StatusTooManyRequests, rateLimitedMsg)
	}
}
