package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct {
	Common
}

func NewDebugModule(common Common) *DebugModule { return &DebugModule{Common: common} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP
	rg.GET("/debug/vars", m.ipLimiter(), gin.WrapH(expvar.Handler()))
}
