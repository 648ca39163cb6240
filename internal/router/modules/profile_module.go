package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/devconnector-api/internal/interface/http"
)

// ProfileModule serves /api/profile. Listing and lookups are public.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Common
}

func NewProfileModule(h *handlers.ProfileHandler, common Common) *ProfileModule {
	return &ProfileModule{Handler: h, Common: common}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", m.Handler.List)
	rg.GET("/profile/user/:user_id", m.Handler.ByUser)
	rg.GET("/profile/github/:username", m.Handler.GitHub)
	rg.GET("/profile/search", m.ipLimiter(), m.Handler.Search)

	auth := m.guarded(rg)
	{
		auth.GET("/profile/me", m.Handler.Me)
		auth.POST("/profile", m.Handler.Upsert)
		auth.DELETE("/profile", m.Handler.Delete)
		auth.PUT("/profile/experience", m.Handler.AddExperience)
		auth.DELETE("/profile/experience/:exp_id", m.Handler.RemoveExperience)
		auth.PUT("/profile/education", m.Handler.AddEducation)
		auth.DELETE("/profile/education/:edu_id", m.Handler.RemoveEducation)
	}
}
