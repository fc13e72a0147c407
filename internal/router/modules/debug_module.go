package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pulse-backoffice/internal/container"
	"github.com/oksasatya/pulse-backoffice/internal/interface/middleware"
)

var (
	requestCount = expvar.NewMap("http_requests")
	startedAt    = time.Now()
)

func init() {
	expvar.Publish("uptime_seconds", expvar.Func(func() any {
		return int64(time.Since(startedAt).Seconds())
	}))
}

// CountRequests tallies responses by status class for /debug/vars.
func CountRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		requestCount.Add(statusClass(c.Writer.Status()), 1)
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
