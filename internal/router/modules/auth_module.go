package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pulse-backoffice/internal/container"
	handlers "github.com/oksasatya/pulse-backoffice/internal/interface/http"
	"github.com/oksasatya/pulse-backoffice/internal/interface/middleware"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

// AuthModule wires the session endpoints.
// Public: POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET /api/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)   // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil) // 60 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := protected(rg, m.JWT)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
