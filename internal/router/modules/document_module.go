package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pulse-backoffice/internal/interface/http"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

// DocumentModule serves the document library and the investors it belongs to.
type DocumentModule struct {
	Handler *handlers.DocumentHandler
	JWT     *helpers.JWTManager
}

func NewDocumentModule(h *handlers.DocumentHandler, jwt *helpers.JWTManager) *DocumentModule {
	return &DocumentModule{Handler: h, JWT: jwt}
}

func (m *DocumentModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT)
	{
		auth.GET("/documents", m.Handler.List)
		auth.GET("/documents/search", m.Handler.Search)
		auth.GET("/documents/:id", m.Handler.Get)

		auth.GET("/investors", m.Handler.ListInvestors)
		auth.POST("/investors", m.Handler.CreateInvestor)
		auth.GET("/investors/:id", m.Handler.GetInvestor)
		auth.POST("/investors/:id/documents", m.Handler.Upload)
	}
}
