package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/pulse-backoffice/pkg/response"
)

// KeyFunc builds the counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request bypasses a limit.
type AllowFunc func(*gin.Context) bool

// Policy is one named fixed-window limit. A request is counted only when
// Applies (if set) matches and Allow (if set) does not.
type Policy struct {
	Name    string
	Limit   int
	Window  time.Duration
	Key     KeyFunc
	Applies func(*gin.Context) bool
	Allow   AllowFunc
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// routeDomain is the back-office area a route belongs to: the first segment
// after /api of the matched route, e.g. "kyc" for /api/kyc/reviews/:id.
func routeDomain(c *gin.Context) string {
	p := c.FullPath()
	if p == "" {
		p = c.Request.URL.Path
	}
	p = strings.TrimPrefix(strings.TrimPrefix(p, "/api"), "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "pulse:rl:ip:" + clientIP(c) }
}

// KeyByUserID counts per signed-in user, and per IP for anonymous callers.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "pulse:rl:user:" + uid
		}
		return "pulse:rl:user:anon:ip:" + clientIP(c)
	}
}

// KeyByUserAndDomain counts a user's requests separately per back-office
// area, so bulk KYC uploads do not eat into the communications budget.
func KeyByUserAndDomain(scope string) KeyFunc {
	return func(c *gin.Context) string {
		who := c.GetString(CtxUserIDKey)
		if who == "" {
			who = "anon:" + clientIP(c)
		}
		return "pulse:rl:" + scope + ":" + routeDomain(c) + ":" + who
	}
}

// Writes matches requests that change data.
func Writes() func(*gin.Context) bool {
	return func(c *gin.Context) bool {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return false
		}
		return true
	}
}

// Uploads matches the multipart document endpoints
// (KYC reviews, due-diligence items, investors).
func Uploads() func(*gin.Context) bool {
	return func(c *gin.Context) bool {
		return c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/documents")
	}
}

// Sends matches communication dispatch, which fans out one email per recipient.
func Sends() func(*gin.Context) bool {
	return func(c *gin.Context) bool {
		return c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/send")
	}
}

// incrWindow bumps the counter, starts the window on the first hit, and
// returns {count, remaining window in ms} in one round trip.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit is Limit for an unnamed policy counted on every request.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	return Limit(rdb, Policy{Limit: limit, Window: window, Key: keyFn, Allow: allow})
}

// Limit enforces p. It is a no-op without Redis and fails open when Redis
// errors. OPTIONS is never counted.
func Limit(rdb *redis.Client, p Policy) gin.HandlerFunc {
	if rdb == nil || p.Limit <= 0 || p.Window <= 0 || p.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			(p.Applies != nil && !p.Applies(c)) ||
			(p.Allow != nil && p.Allow(c)) {
			c.Next()
			return
		}

		res, err := incrWindow.Run(c.Request.Context(), rdb, []string{p.Key(c)}, p.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count, resetSec := int(res[0]), 0
		if res[1] > 0 {
			resetSec = int((time.Duration(res[1])*time.Millisecond + time.Second - 1) / time.Second)
		}

		if p.Name != "" {
			c.Header("X-RateLimit-Policy", p.Name)
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(p.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(p.Limit-count, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > p.Limit {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			msg := "rate limit exceeded"
			if p.Name != "" {
				msg = p.Name + " rate limit exceeded"
			}
			response.Error[any](c, http.StatusTooManyRequests, msg, gin.H{"domain": routeDomain(c)})
			c.Abort()
			return
		}
		c.Next()
	}
}
