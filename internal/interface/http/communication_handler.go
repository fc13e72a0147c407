package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/interface/middleware"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

type CommunicationHandler struct {
	Svc    *application.CommunicationService
	Logger *logrus.Logger
}

func NewCommunicationHandler(svc *application.CommunicationService, logger *logrus.Logger) *CommunicationHandler {
	return &CommunicationHandler{Svc: svc, Logger: logger}
}

type createCommRequest struct {
	Type          string              `json:"type" binding:"required,commtype"`
	Subject       string              `json:"subject" binding:"required"`
	Content       string              `json:"content"`
	Sender        string              `json:"sender"`
	Recipients    []string            `json:"recipients"`
	ScheduledDate *time.Time          `json:"scheduled_date"`
	Attachments   []entity.Attachment `json:"attachments"`
}

type updateCommRequest struct {
	Type        *string             `json:"type" binding:"omitempty,commtype"`
	Subject     *string             `json:"subject"`
	Content     *string             `json:"content"`
	Recipients  []string            `json:"recipients"`
	Attachments []entity.Attachment `json:"attachments"`
}

type scheduleRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

type readRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

func (h *CommunicationHandler) List(c *gin.Context) {
	comms, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, comms, "communications", gin.H{"count": len(comms)})
}

func (h *CommunicationHandler) Get(c *gin.Context) {
	cm, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, cm, "communication", nil)
}

func (h *CommunicationHandler) Create(c *gin.Context) {
	var req createCommRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Sender == "" {
		req.Sender = c.GetString(middleware.CtxUserIDKey)
	}
	cm, err := h.Svc.Create(c.Request.Context(), application.CreateCommunicationInput{
		Type:          entity.CommunicationType(req.Type),
		Subject:       req.Subject,
		Content:       req.Content,
		Sender:        req.Sender,
		Recipients:    req.Recipients,
		ScheduledDate: req.ScheduledDate,
		Attachments:   req.Attachments,
	})
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, cm, "communication created", nil)
}

func (h *CommunicationHandler) Update(c *gin.Context) {
	var req updateCommRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := application.UpdateCommunicationInput{
		Subject:     req.Subject,
		Content:     req.Content,
		Recipients:  req.Recipients,
		Attachments: req.Attachments,
	}
	if req.Type != nil {
		t := entity.CommunicationType(*req.Type)
		in.Type = &t
	}
	cm, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, cm, "communication updated", nil)
}

func (h *CommunicationHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "communication deleted", nil)
}

func (h *CommunicationHandler) Send(c *gin.Context) {
	cm, err := h.Svc.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, cm, "communication sent", nil)
}

func (h *CommunicationHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cm, err := h.Svc.Schedule(c.Request.Context(), c.Param("id"), req.ScheduledDate)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, cm, "communication scheduled", nil)
}

func (h *CommunicationHandler) MarkRead(c *gin.Context) {
	var req readRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cm, err := h.Svc.MarkRead(c.Request.Context(), c.Param("id"), req.Recipient)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, cm, "marked as read", nil)
}

func (h *CommunicationHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, st, "communication stats", nil)
}
