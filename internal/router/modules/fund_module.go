package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pulse-backoffice/internal/interface/http"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

type FundModule struct {
	Handler *handlers.FundHandler
	JWT     *helpers.JWTManager
}

func NewFundModule(h *handlers.FundHandler, jwt *helpers.JWTManager) *FundModule {
	return &FundModule{Handler: h, JWT: jwt}
}

func (m *FundModule) Register(rg *gin.RouterGroup) {
	funds := protected(rg, m.JWT).Group("/funds")
	{
		funds.GET("", m.Handler.List)
		funds.GET("/performance", m.Handler.Performance)
		funds.GET("/:id", m.Handler.Get)
	}
}
