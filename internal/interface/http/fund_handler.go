package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

type FundHandler struct {
	Svc    *application.FundService
	Logger *logrus.Logger
}

func NewFundHandler(svc *application.FundService, logger *logrus.Logger) *FundHandler {
	return &FundHandler{Svc: svc, Logger: logger}
}

func (h *FundHandler) List(c *gin.Context) {
	funds, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, funds, "funds", gin.H{"count": len(funds)})
}

func (h *FundHandler) Get(c *gin.Context) {
	f, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, f, "fund", nil)
}

func (h *FundHandler) Performance(c *gin.Context) {
	p, err := h.Svc.Performance(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, p, "fund performance", nil)
}
