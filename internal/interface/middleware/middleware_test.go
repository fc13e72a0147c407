package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// Request id
// ---------------------------------------------------------------------------

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	incoming := uuid.NewString()
	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{"generated when absent", "", false},
		{"reused when valid", incoming, true},
		{"replaced when malformed", "not-a-uuid", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := serve(r, req)
			id := rec.Header().Get(RequestIDHeader)
			assert.Equal(t, id, rec.Body.String())
			_, err := uuid.Parse(id)
			require.NoError(t, err)
			if tt.reuse {
				assert.Equal(t, tt.header, id)
			} else {
				assert.NotEqual(t, tt.header, id)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAuth(t *testing.T) {
	t.Parallel()
	jwt := helpers.NewJWTManager("a-secret", "r-secret", time.Minute, time.Hour)
	r := gin.New()
	r.Use(Auth(nil, jwt))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+"/"+c.GetString(CtxRoleKey))
	})

	access, _, err := jwt.GenerateAccessToken("usr-1", "analyst")
	require.NoError(t, err)
	refresh, _, err := jwt.GenerateRefreshToken("usr-1", "analyst")
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		code   int
		expect string
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+access) }, http.StatusOK, "usr-1/analyst"},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+access) }, http.StatusOK, "usr-1/analyst"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: access}) }, http.StatusOK, "usr-1/analyst"},
		{"refresh token rejected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refresh) }, http.StatusUnauthorized, ""},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc.def.ghi") }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := serve(r, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.expect != "" {
				assert.Equal(t, tt.expect, rec.Body.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Client IP and rate limit helpers
// ---------------------------------------------------------------------------

func TestRealIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		trust   bool
		headers map[string]string
		want    string
	}{
		{"remote addr", false, nil, "192.0.2.10"},
		{"headers ignored when untrusted", false, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "192.0.2.10"},
		{"cloudflare header", true, map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "203.0.113.5"}, "203.0.113.7"},
		{"left-most forwarded", true, map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "203.0.113.5"},
		{"invalid header falls back", true, map[string]string{"X-Forwarded-For": "nonsense"}, "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			require.NoError(t, r.SetTrustedProxies(nil))
			r.Use(RealIP(tt.trust))
			r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.10:5555"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, serve(r, req).Body.String())
		})
	}
}

func TestAllowFuncs(t *testing.T) {
	t.Parallel()
	ctx := func(ip, role string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		if role != "" {
			c.Set(CtxRoleKey, role)
		}
		return c
	}

	private := AllowPrivateIP()
	assert.True(t, private(ctx("10.1.2.3", "")))
	assert.True(t, private(ctx("127.0.0.1", "")))
	assert.False(t, private(ctx("203.0.113.9", "")))

	admins := AllowRoles("admin")
	assert.True(t, admins(ctx("203.0.113.9", "admin")))
	assert.False(t, admins(ctx("203.0.113.9", "viewer")))

	either := AnyOf(nil, private, admins)
	assert.True(t, either(ctx("203.0.113.9", "admin")))
	assert.False(t, either(ctx("203.0.113.9", "viewer")))
}

func TestKeyFuncs(t *testing.T) {
	t.Parallel()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/funds", nil)
	c.Set("real_ip", "203.0.113.9")

	assert.Equal(t, "pulse:rl:ip:203.0.113.9", KeyByIP()(c))
	assert.Equal(t, "pulse:rl:user:anon:ip:203.0.113.9", KeyByUserID()(c))
	assert.Equal(t, "pulse:rl:write:funds:anon:203.0.113.9", KeyByUserAndDomain("write")(c))
	c.Set(CtxUserIDKey, "usr-9")
	assert.Equal(t, "pulse:rl:user:usr-9", KeyByUserID()(c))
	assert.Equal(t, "pulse:rl:write:funds:usr-9", KeyByUserAndDomain("write")(c))
}

// routed runs fn inside a real route so FullPath is the route pattern.
func routed(t *testing.T, method, pattern, target string, fn func(c *gin.Context)) {
	t.Helper()
	r := gin.New()
	ran := false
	r.Handle(method, pattern, func(c *gin.Context) {
		ran = true
		fn(c)
		c.Status(http.StatusNoContent)
	})
	serve(r, httptest.NewRequest(method, target, nil))
	require.True(t, ran, "route %s %s did not match %s", method, pattern, target)
}

func TestRouteMatchers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		method, pattern, target string
		domain                  string
		write, upload, send     bool
	}{
		{http.MethodGet, "/api/kyc/reviews/:id", "/api/kyc/reviews/kyc-2001", "kyc", false, false, false},
		{http.MethodPost, "/api/kyc/reviews/:id/documents", "/api/kyc/reviews/kyc-2001/documents", "kyc", true, true, false},
		{http.MethodPost, "/api/investors/:id/documents", "/api/investors/inv-1001/documents", "investors", true, true, false},
		{http.MethodGet, "/api/documents", "/api/documents", "documents", false, false, false},
		{http.MethodPatch, "/api/due-diligence/:id/progress", "/api/due-diligence/dd-3001/progress", "due-diligence", true, false, false},
		{http.MethodPost, "/api/communications/:id/send", "/api/communications/com-4002/send", "communications", true, false, true},
		{http.MethodDelete, "/api/communications/:id", "/api/communications/com-4003", "communications", true, false, false},
		{http.MethodGet, "/healthz", "/healthz", "healthz", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.pattern, func(t *testing.T) {
			t.Parallel()
			routed(t, tt.method, tt.pattern, tt.target, func(c *gin.Context) {
				assert.Equal(t, tt.domain, routeDomain(c))
				assert.Equal(t, tt.write, Writes()(c))
				assert.Equal(t, tt.upload, Uploads()(c))
				assert.Equal(t, tt.send, Sends()(c))
			})
		})
	}
}

func TestLimit_NoRedisPassesThrough(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(Limit(nil, Policy{Name: "uploads", Limit: 1, Window: time.Minute, Key: KeyByUserAndDomain("upload"), Applies: Uploads()}))
	r.POST("/api/kyc/reviews/:id/documents", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/api/kyc/reviews/kyc-2001/documents", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Policy"))
	}
}

func TestRateLimit_NoRedisPassesThrough(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(RateLimit(nil, 1, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestSessionKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pulse:session:usr-1", SessionKey("usr-1"))
}
