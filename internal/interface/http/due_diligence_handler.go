package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/interface/middleware"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

type DueDiligenceHandler struct {
	Svc    *application.DueDiligenceService
	Logger *logrus.Logger
}

func NewDueDiligenceHandler(svc *application.DueDiligenceService, logger *logrus.Logger) *DueDiligenceHandler {
	return &DueDiligenceHandler{Svc: svc, Logger: logger}
}

type ddQuery struct {
	Search     string `form:"search"`
	Type       string `form:"type" binding:"omitempty,ddtype"`
	Status     string `form:"status" binding:"omitempty,ddstatus"`
	Priority   string `form:"priority" binding:"omitempty,priority"`
	AssignedTo string `form:"assigned_to"`
	DueFrom    string `form:"due_from"`
	DueTo      string `form:"due_to"`
}

type createDDRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Type        string `json:"type" binding:"required,ddtype"`
	StartDate   string `json:"start_date" binding:"required"`
	DueDate     string `json:"due_date" binding:"required"`
	Status      string `json:"status" binding:"omitempty,ddstatus"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	AssignedTo  string `json:"assigned_to"`
	Progress    int    `json:"progress"`
}

type updateDDRequest struct {
	CompanyName *string `json:"company_name"`
	Type        *string `json:"type" binding:"omitempty,ddtype"`
	StartDate   *string `json:"start_date"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status" binding:"omitempty,ddstatus"`
	Priority    *string `json:"priority" binding:"omitempty,priority"`
	AssignedTo  *string `json:"assigned_to"`
	Progress    *int    `json:"progress"`
}

type ddStatusRequest struct {
	Status string `json:"status" binding:"required,ddstatus"`
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

type commentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text" binding:"required"`
}

type ddUploadForm struct {
	Name string `form:"name"`
	Type string `form:"type"`
}

func (h *DueDiligenceHandler) List(c *gin.Context) {
	var q ddQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	from, err := parseDate(q.DueFrom)
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := parseDate(q.DueTo)
	if err != nil {
		badRequest(c, err)
		return
	}
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	items = application.FilterDueDiligence(items, application.DueDiligenceFilter{
		Search:     q.Search,
		Type:       entity.DueDiligenceType(q.Type),
		Status:     entity.DueDiligenceStatus(q.Status),
		Priority:   entity.Priority(q.Priority),
		AssignedTo: q.AssignedTo,
		Due:        application.DateRange{From: from, To: to},
	})
	response.Success(c, http.StatusOK, items, "due diligence items", gin.H{"count": len(items)})
}

func (h *DueDiligenceHandler) Get(c *gin.Context) {
	d, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, d, "due diligence item", nil)
}

func (h *DueDiligenceHandler) Create(c *gin.Context) {
	var req createDDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.Svc.Create(c.Request.Context(), application.CreateDueDiligenceInput{
		CompanyName: req.CompanyName,
		Type:        entity.DueDiligenceType(req.Type),
		StartDate:   *start,
		DueDate:     *due,
		Status:      entity.DueDiligenceStatus(req.Status),
		Priority:    entity.Priority(req.Priority),
		AssignedTo:  req.AssignedTo,
		Progress:    req.Progress,
	})
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, d, "due diligence item created", nil)
}

func (h *DueDiligenceHandler) Update(c *gin.Context) {
	var req updateDDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := application.UpdateDueDiligenceInput{
		CompanyName: req.CompanyName,
		AssignedTo:  req.AssignedTo,
		Progress:    req.Progress,
	}
	if req.Type != nil {
		v := entity.DueDiligenceType(*req.Type)
		in.Type = &v
	}
	if req.Status != nil {
		v := entity.DueDiligenceStatus(*req.Status)
		in.Status = &v
	}
	if req.Priority != nil {
		v := entity.Priority(*req.Priority)
		in.Priority = &v
	}
	var err error
	if req.StartDate != nil {
		if in.StartDate, err = parseDate(*req.StartDate); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.DueDate != nil {
		if in.DueDate, err = parseDate(*req.DueDate); err != nil {
			badRequest(c, err)
			return
		}
	}
	d, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, d, "due diligence item updated", nil)
}

func (h *DueDiligenceHandler) UpdateStatus(c *gin.Context) {
	var req ddStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), entity.DueDiligenceStatus(req.Status))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, d, "status updated", nil)
}

func (h *DueDiligenceHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.Svc.UpdateProgress(c.Request.Context(), c.Param("id"), *req.Progress)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, d, "progress updated", nil)
}

func (h *DueDiligenceHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Author == "" {
		req.Author = c.GetString(middleware.CtxUserIDKey)
	}
	cm, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), req.Author, req.Text)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, cm, "comment added", nil)
}

func (h *DueDiligenceHandler) UploadDocument(c *gin.Context) {
	limitBody(c)
	var form ddUploadForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	file, closer, err := formFile(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	defer closer.Close()

	doc, err := h.Svc.UploadDocument(c.Request.Context(), c.Param("id"), file, form.Name, form.Type)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, doc, "document uploaded", nil)
}
