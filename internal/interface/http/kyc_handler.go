package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

type KYCHandler struct {
	Svc    *application.KYCService
	Logger *logrus.Logger
}

func NewKYCHandler(svc *application.KYCService, logger *logrus.Logger) *KYCHandler {
	return &KYCHandler{Svc: svc, Logger: logger}
}

type kycQuery struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,kycstatus"`
	RiskLevel string `form:"risk_level" binding:"omitempty,risk"`
}

type createReviewRequest struct {
	InvestorID     string `json:"investor_id" binding:"required"`
	RiskLevel      string `json:"risk_level" binding:"required,risk"`
	Status         string `json:"status" binding:"omitempty,kycstatus"`
	LastReviewDate string `json:"last_review_date" binding:"required"`
	NextReviewDate string `json:"next_review_date" binding:"required"`
}

type updateReviewRequest struct {
	RiskLevel      *string `json:"risk_level" binding:"omitempty,risk"`
	Status         *string `json:"status" binding:"omitempty,kycstatus"`
	LastReviewDate *string `json:"last_review_date"`
	NextReviewDate *string `json:"next_review_date"`
}

type reviewStatusRequest struct {
	Status string `json:"status" binding:"required,kycstatus"`
}

type docStatusRequest struct {
	Status string `json:"status" binding:"required,kycdocstatus"`
}

type kycUploadForm struct {
	Name       string `form:"name"`
	Type       string `form:"type" binding:"required"`
	ExpiryDate string `form:"expiry_date"`
}

type activityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (h *KYCHandler) List(c *gin.Context) {
	var q kycQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	reviews, err := h.Svc.ListReviews(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	reviews = application.FilterKYC(reviews, application.KYCFilter{
		Search:    q.Search,
		Status:    entity.KYCStatus(q.Status),
		RiskLevel: entity.RiskLevel(q.RiskLevel),
	})
	response.Success(c, http.StatusOK, reviews, "kyc reviews", gin.H{"count": len(reviews)})
}

func (h *KYCHandler) Get(c *gin.Context) {
	r, err := h.Svc.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, r, "kyc review", nil)
}

func (h *KYCHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	last, err := parseDate(req.LastReviewDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	next, err := parseDate(req.NextReviewDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.Svc.CreateReview(c.Request.Context(), application.CreateReviewInput{
		InvestorID:     req.InvestorID,
		RiskLevel:      entity.RiskLevel(req.RiskLevel),
		Status:         entity.KYCStatus(req.Status),
		LastReviewDate: *last,
		NextReviewDate: *next,
	})
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, r, "kyc review created", nil)
}

func (h *KYCHandler) Update(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var in application.UpdateReviewInput
	if req.RiskLevel != nil {
		v := entity.RiskLevel(*req.RiskLevel)
		in.RiskLevel = &v
	}
	if req.Status != nil {
		v := entity.KYCStatus(*req.Status)
		in.Status = &v
	}
	var err error
	if req.LastReviewDate != nil {
		if in.LastReviewDate, err = parseDate(*req.LastReviewDate); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.NextReviewDate != nil {
		if in.NextReviewDate, err = parseDate(*req.NextReviewDate); err != nil {
			badRequest(c, err)
			return
		}
	}
	r, err := h.Svc.UpdateReview(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, r, "kyc review updated", nil)
}

func (h *KYCHandler) UpdateStatus(c *gin.Context) {
	var req reviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ok, err := h.Svc.UpdateReviewStatus(c.Request.Context(), c.Param("id"), entity.KYCStatus(req.Status))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": ok}, "kyc status updated", nil)
}

func (h *KYCHandler) UploadDocument(c *gin.Context) {
	limitBody(c)
	var form kycUploadForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	expiry, err := parseDate(form.ExpiryDate)
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

	doc, err := h.Svc.UploadDocument(c.Request.Context(), c.Param("id"), file, application.KYCDocumentMeta{
		Name:       form.Name,
		Type:       form.Type,
		ExpiryDate: expiry,
	})
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, doc, "document uploaded", nil)
}

func (h *KYCHandler) UpdateDocumentStatus(c *gin.Context) {
	var req docStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := h.Svc.UpdateDocumentStatus(c.Request.Context(), c.Param("id"), c.Param("docId"), entity.KYCDocumentStatus(req.Status))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, doc, "document status updated", nil)
}

func (h *KYCHandler) Metrics(c *gin.Context) {
	m, err := h.Svc.Metrics(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, m, "kyc metrics", nil)
}

func (h *KYCHandler) RiskDistribution(c *gin.Context) {
	d, err := h.Svc.RiskDistribution(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, d, "risk distribution", nil)
}

func (h *KYCHandler) RecentActivity(c *gin.Context) {
	var q activityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	reviews, err := h.Svc.RecentActivity(c.Request.Context(), q.Limit)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, reviews, "recent activity", gin.H{"count": len(reviews)})
}
