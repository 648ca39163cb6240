package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/devconnector-api/internal/interface/middleware"
)

// Common holds the middleware every module shares.
type Common struct {
	Auth gin.HandlerFunc

	Redis         *redis.Client
	AuthLimit     int
	MutationLimit int
	Window        time.Duration
	Allow         middleware.AllowFunc
}

// ipLimiter limits unauthenticated routes per client IP and route.
func (c Common) ipLimiter() gin.HandlerFunc {
	return middleware.RateLimit(c.Redis, c.AuthLimit, c.Window, middleware.KeyByIPAndPath(), c.Allow)
}

// userLimiter limits guarded routes per user; it must follow Auth.
func (c Common) userLimiter() gin.HandlerFunc {
	return middleware.RateLimit(c.Redis, c.MutationLimit, c.Window, middleware.KeyByUserID(), c.Allow)
}

// guarded returns a group behind the access guard and the per-user limiter.
func (c Common) guarded(rg *gin.RouterGroup) *gin.RouterGroup {
	return rg.Group("/", c.Auth, c.userLimiter())
}
