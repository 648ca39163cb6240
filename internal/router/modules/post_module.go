package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/devconnector-api/internal/interface/http"
)

// PostModule serves /api/posts; every route requires a token.
type PostModule struct {
	Handler *handlers.PostHandler
	Common
}

func NewPostModule(h *handlers.PostHandler, common Common) *PostModule {
	return &PostModule{Handler: h, Common: common}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := m.guarded(rg)
	{
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts", m.Handler.List)
		auth.GET("/posts/:id", m.Handler.Get)
		auth.DELETE("/posts/:id", m.Handler.Delete)
		auth.PUT("/posts/like/:id", m.Handler.Like)
		auth.PUT("/posts/unlike/:id", m.Handler.Unlike)
		auth.POST("/posts/comment/:id", m.Handler.Comment)
		auth.DELETE("/posts/comment/:id/:comment_id", m.Handler.Uncomment)
	}
}
