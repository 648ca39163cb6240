package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector-api/internal/container"
	handlers "github.com/oksasatya/devconnector-api/internal/interface/http"
	"github.com/oksasatya/devconnector-api/internal/interface/middleware"
	"github.com/oksasatya/devconnector-api/internal/router/modules"
	"github.com/oksasatya/devconnector-api/pkg/response"
)

// NewEngine builds the Gin engine with global middleware and every module.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	r.Use(cors.New(corsConfig(cfg.CORSOrigins(), cfg.AuthHeader)))
	r.NoRoute(func(ctx *gin.Context) {
		response.Msg(ctx, http.StatusNotFound, "Not found")
	})

	reg := NewRegistry(r, "/api")
	InitModules(reg, c)
	reg.RegisterAll()
	c.Logger.WithField("routes", reg.Routes()).Debug("routes registered")
	return r
}

func corsConfig(origins []string, authHeader string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", authHeader},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}

// InitModules builds the handlers from c and registers every module.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	common := modules.Common{
		Auth:          middleware.Auth(cfg.AuthHeader, c.Creds),
		Redis:         c.Redis,
		AuthLimit:     cfg.RateLimitAuth,
		MutationLimit: cfg.RateLimitMutation,
		Window:        cfg.RateLimitWindow,
	}
	if cfg.Env == "development" {
		common.Allow = middleware.AllowPrivateIP()
	}

	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(c.UserService, c.Logger),
		handlers.NewUserHandler(c.UserService, c.Logger),
		common,
	))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(c.ProfileService, c.UserService, c.Logger), common))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(c.PostService, c.Logger), common))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(common))
	}
}
