package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

// DocumentHandler serves the document library and the investor directory.
type DocumentHandler struct {
	Docs      *application.DocumentService
	Investors *application.InvestorService
	Logger    *logrus.Logger
}

func NewDocumentHandler(docs *application.DocumentService, investors *application.InvestorService, logger *logrus.Logger) *DocumentHandler {
	return &DocumentHandler{Docs: docs, Investors: investors, Logger: logger}
}

type documentQuery struct {
	Search     string `form:"search"`
	Type       string `form:"type"`
	InvestorID string `form:"investor_id"`
	ProjectID  string `form:"project_id"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type searchQuery struct {
	Q string `form:"q"`
}

type documentUploadForm struct {
	Title     string `form:"title"`
	Type      string `form:"type" binding:"required"`
	Date      string `form:"date"`
	ProjectID string `form:"project_id"`
}

type createInvestorRequest struct {
	Name  string `json:"name" binding:"required"`
	Type  string `json:"type" binding:"required,oneof=Individual Institutional FamilyOffice FundOfFunds"`
	Email string `json:"email" binding:"omitempty,email"`
}

func (h *DocumentHandler) List(c *gin.Context) {
	var q documentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	from, err := parseDate(q.From)
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := parseDate(q.To)
	if err != nil {
		badRequest(c, err)
		return
	}
	docs, err := h.Docs.List(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	docs = application.FilterDocuments(docs, application.DocumentFilter{
		Search:     q.Search,
		Type:       q.Type,
		InvestorID: q.InvestorID,
		ProjectID:  q.ProjectID,
		Date:       application.DateRange{From: from, To: to},
	})
	response.Success(c, http.StatusOK, docs, "documents", gin.H{"count": len(docs)})
}

func (h *DocumentHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	docs, err := h.Docs.Search(c.Request.Context(), q.Q)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, docs, "documents", gin.H{"count": len(docs), "q": q.Q})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	d, err := h.Docs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, d, "document", nil)
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	limitBody(c)
	var form documentUploadForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate(form.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	file, closer, err := formFile(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	defer closer.Close()

	meta := application.DocumentMeta{Title: form.Title, Type: form.Type, ProjectID: form.ProjectID}
	if date != nil {
		meta.Date = *date
	}
	d, err := h.Docs.Upload(c.Request.Context(), c.Param("id"), file, meta)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, d, "document uploaded", nil)
}

func (h *DocumentHandler) ListInvestors(c *gin.Context) {
	invs, err := h.Investors.List(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, invs, "investors", gin.H{"count": len(invs)})
}

func (h *DocumentHandler) GetInvestor(c *gin.Context) {
	inv, err := h.Investors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, inv, "investor", nil)
}

func (h *DocumentHandler) CreateInvestor(c *gin.Context) {
	var req createInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := h.Investors.Create(c.Request.Context(), req.Name, entity.InvestorType(req.Type), req.Email)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, inv, "investor created", nil)
}
