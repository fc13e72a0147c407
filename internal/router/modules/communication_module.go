package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pulse-backoffice/internal/interface/http"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

type CommunicationModule struct {
	Handler *handlers.CommunicationHandler
	JWT     *helpers.JWTManager
}

func NewCommunicationModule(h *handlers.CommunicationHandler, jwt *helpers.JWTManager) *CommunicationModule {
	return &CommunicationModule{Handler: h, JWT: jwt}
}

func (m *CommunicationModule) Register(rg *gin.RouterGroup) {
	cm := protected(rg, m.JWT).Group("/communications")
	{
		cm.GET("", m.Handler.List)
		cm.POST("", m.Handler.Create)
		cm.GET("/stats", m.Handler.Stats)
		cm.GET("/:id", m.Handler.Get)
		cm.PATCH("/:id", m.Handler.Update)
		cm.DELETE("/:id", m.Handler.Delete)
		cm.POST("/:id/send", m.Handler.Send)
		cm.POST("/:id/schedule", m.Handler.Schedule)
		cm.POST("/:id/read", m.Handler.MarkRead)
	}
}
