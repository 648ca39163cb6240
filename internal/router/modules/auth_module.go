package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/devconnector-api/internal/interface/http"
)

// AuthModule serves registration, login and the current user.
// Public: POST /api/users, POST /api/auth
// Guarded: GET /api/auth, PUT /api/users/avatar
type AuthModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	Common
}

func NewAuthModule(auth *handlers.AuthHandler, users *handlers.UserHandler, common Common) *AuthModule {
	return &AuthModule{Auth: auth, Users: users, Common: common}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := m.ipLimiter()
	rg.POST("/users", limiter, m.Auth.Register)
	rg.POST("/auth", limiter, m.Auth.Login)

	auth := m.guarded(rg)
	{
		auth.GET("/auth", m.Auth.Me)
		auth.PUT("/users/avatar", m.Users.UploadAvatar)
	}
}
