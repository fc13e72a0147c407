package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pulse-backoffice/internal/container"
	"github.com/oksasatya/pulse-backoffice/internal/interface/middleware"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

// Limits for signed-in users. Writes, uploads and sends are counted per
// back-office area on top of the overall per-user budget.
var (
	writePolicy = middleware.Policy{
		Name: "writes", Limit: 60, Window: time.Minute,
		Key: middleware.KeyByUserAndDomain("write"), Applies: middleware.Writes(),
	}
	uploadPolicy = middleware.Policy{
		Name: "uploads", Limit: 20, Window: time.Minute,
		Key: middleware.KeyByUserAndDomain("upload"), Applies: middleware.Uploads(),
	}
	sendPolicy = middleware.Policy{
		Name: "sends", Limit: 10, Window: time.Minute,
		Key: middleware.KeyByUserAndDomain("send"), Applies: middleware.Sends(),
		Allow: middleware.AllowRoles("admin"),
	}
)

// protected returns a group behind Auth with the per-IP, per-user and
// per-area limits.
func protected(rg *gin.RouterGroup, jwt *helpers.JWTManager) *gin.RouterGroup {
	rdb := container.GetRedis()
	g := rg.Group("/")
	g.Use(middleware.Auth(rdb, jwt))
	g.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowRoles("admin")),
		middleware.Limit(rdb, writePolicy),
		middleware.Limit(rdb, uploadPolicy),
		middleware.Limit(rdb, sendPolicy),
	)
	return g
}
