package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pulse-backoffice/internal/interface/http"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

type KYCModule struct {
	Handler *handlers.KYCHandler
	JWT     *helpers.JWTManager
}

func NewKYCModule(h *handlers.KYCHandler, jwt *helpers.JWTManager) *KYCModule {
	return &KYCModule{Handler: h, JWT: jwt}
}

func (m *KYCModule) Register(rg *gin.RouterGroup) {
	kyc := protected(rg, m.JWT).Group("/kyc")
	{
		kyc.GET("/reviews", m.Handler.List)
		kyc.POST("/reviews", m.Handler.Create)
		kyc.GET("/reviews/:id", m.Handler.Get)
		kyc.PATCH("/reviews/:id", m.Handler.Update)
		kyc.PATCH("/reviews/:id/status", m.Handler.UpdateStatus)
		kyc.POST("/reviews/:id/documents", m.Handler.UploadDocument)
		kyc.PATCH("/reviews/:id/documents/:docId/status", m.Handler.UpdateDocumentStatus)

		kyc.GET("/metrics", m.Handler.Metrics)
		kyc.GET("/risk-distribution", m.Handler.RiskDistribution)
		kyc.GET("/activity", m.Handler.RecentActivity)
	}
}
