package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/interface/middleware"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

type AuthHandler struct {
	Svc     *application.UserService
	Redis   *redis.Client
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.UserService, rdb *redis.Client, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Redis: rdb, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	if err := h.storeSession(c, u, pair.RefreshTokenExpiry); err != nil {
		reqLog(h.Logger, c).WithError(err).Error("store session failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create session", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, u, "login successful", tokenMeta(pair))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", tokenMeta(pair))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if h.Redis != nil {
		if err := h.Redis.Del(c.Request.Context(), middleware.SessionKey(c.GetString(middleware.CtxUserIDKey))).Err(); err != nil {
			reqLog(h.Logger, c).WithError(err).Warn("delete session failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, reqLog(h.Logger, c), err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *AuthHandler) storeSession(c *gin.Context, u *entity.User, exp time.Time) error {
	if h.Redis == nil {
		return nil
	}
	key := middleware.SessionKey(u.ID)
	ctx := c.Request.Context()
	if err := h.Redis.HSet(ctx, key, map[string]any{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
	}).Err(); err != nil {
		return err
	}
	return h.Redis.ExpireAt(ctx, key, exp).Err()
}

func tokenMeta(p application.TokenPair) gin.H {
	return gin.H{"access_expires_at": p.AccessTokenExpiry, "refresh_expires_at": p.RefreshTokenExpiry}
}
