package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pulse-backoffice/internal/container"
	handlers "github.com/oksasatya/pulse-backoffice/internal/interface/http"
	"github.com/oksasatya/pulse-backoffice/internal/router/modules"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

// InitModules builds the handlers from the container's services and adds
// their modules to the registry. Call it once during startup, after
// container.SetServices.
func InitModules(r *Registry) {
	svc := container.GetServices()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	cfg := container.GetConfig()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Users, container.GetRedis(), logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger), jwt))
	r.Add(modules.NewKYCModule(handlers.NewKYCHandler(svc.KYC, logger), jwt))
	r.Add(modules.NewDueDiligenceModule(handlers.NewDueDiligenceHandler(svc.DueDiligence, logger), jwt))
	r.Add(modules.NewCommunicationModule(handlers.NewCommunicationHandler(svc.Communications, logger), jwt))
	r.Add(modules.NewDocumentModule(handlers.NewDocumentHandler(svc.Documents, svc.Investors, logger), jwt))
	r.Add(modules.NewFundModule(handlers.NewFundHandler(svc.Funds, logger), jwt))
	if cfg.DebugMetricsEnabled {
		r.Use(modules.CountRequests())
		r.Add(modules.NewDebugModule())
	}

	r.Engine.GET("/healthz", health)
}

// health pings the optional backends that are configured.
func health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"store": container.GetConfig().StoreDriver}
	ok := true
	if pool := container.GetPGPool(); pool != nil {
		if err := pool.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			ok = false
		} else {
			checks["postgres"] = "ok"
		}
	}
	if rdb := container.GetRedis(); rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			ok = false
		} else {
			checks["redis"] = "ok"
		}
	}
	if !ok {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.Success[any](c, http.StatusOK, checks, "ok", nil)
}
