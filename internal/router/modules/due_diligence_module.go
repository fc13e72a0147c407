package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pulse-backoffice/internal/interface/http"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

type DueDiligenceModule struct {
	Handler *handlers.DueDiligenceHandler
	JWT     *helpers.JWTManager
}

func NewDueDiligenceModule(h *handlers.DueDiligenceHandler, jwt *helpers.JWTManager) *DueDiligenceModule {
	return &DueDiligenceModule{Handler: h, JWT: jwt}
}

func (m *DueDiligenceModule) Register(rg *gin.RouterGroup) {
	dd := protected(rg, m.JWT).Group("/due-diligence")
	{
		dd.GET("", m.Handler.List)
		dd.POST("", m.Handler.Create)
		dd.GET("/:id", m.Handler.Get)
		dd.PATCH("/:id", m.Handler.Update)
		dd.PATCH("/:id/status", m.Handler.UpdateStatus)
		dd.PATCH("/:id/progress", m.Handler.UpdateProgress)
		dd.POST("/:id/comments", m.Handler.AddComment)
		dd.POST("/:id/documents", m.Handler.UploadDocument)
	}
}
