package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userQuery struct {
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,role"`
	Status string `form:"status" binding:"omitempty,userstatus"`
}

type createUserRequest struct {
	Email       string             `json:"email" binding:"required,email"`
	Name        string             `json:"name" binding:"required"`
	Role        string             `json:"role" binding:"required,role"`
	Status      string             `json:"status" binding:"omitempty,userstatus"`
	InvestorID  string             `json:"investor_id"`
	Permissions entity.Permissions `json:"permissions"`
	Password    string             `json:"password" binding:"omitempty,pwd"`
}

type updateUserRequest struct {
	Email       *string            `json:"email" binding:"omitempty,email"`
	Name        *string            `json:"name" binding:"omitempty,min=1"`
	Role        *string            `json:"role" binding:"omitempty,role"`
	Status      *string            `json:"status" binding:"omitempty,userstatus"`
	Permissions entity.Permissions `json:"permissions"`
	Password    *string            `json:"password" binding:"omitempty,pwd"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,userstatus"`
}

func (h *UserHandler) List(c *gin.Context) {
	var q userQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	users = application.FilterUsers(users, application.UserFilter{
		Search: q.Search,
		Role:   entity.Role(q.Role),
		Status: entity.UserStatus(q.Status),
	})
	response.Success(c, http.StatusOK, users, "users", gin.H{"count": len(users)})
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Email:       req.Email,
		Name:        req.Name,
		Role:        entity.Role(req.Role),
		Status:      entity.UserStatus(req.Status),
		InvestorID:  req.InvestorID,
		Permissions: req.Permissions,
		Password:    req.Password,
	})
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := application.UpdateUserInput{
		Email:       req.Email,
		Name:        req.Name,
		Permissions: req.Permissions,
		Password:    req.Password,
	}
	if req.Role != nil {
		r := entity.Role(*req.Role)
		in.Role = &r
	}
	if req.Status != nil {
		s := entity.UserStatus(*req.Status)
		in.Status = &s
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) ToggleStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ok, err := h.Svc.ToggleStatus(c.Request.Context(), c.Param("id"), entity.UserStatus(req.Status))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": ok}, "status updated", nil)
}
