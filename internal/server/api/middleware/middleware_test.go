package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wkmetrics/internal/auth"
	"wkmetrics/internal/server/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubProvider struct {
	identity *auth.Identity
}

func (p *stubProvider) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	if p.identity == nil || token != "good-token" {
		return nil, errors.New("invalid token")
	}
	return p.identity, nil
}

func (p *stubProvider) ResolveRole(context.Context, string) (auth.Role, error) {
	return p.identity.Role, nil
}

func newTestEngine(t *testing.T, cfg *config.Config, provider auth.Provider, setup func(*Middleware, *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := New(cfg, provider, zaptest.NewLogger(t))
	engine := gin.New()
	setup(m, engine)
	return engine
}

func TestRequestID(t *testing.T) {
	engine := newTestEngine(t, &config.Config{}, nil, func(m *Middleware, e *gin.Engine) {
		e.Use(m.RequestID())
		e.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("request_id"))
		})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}

func TestRequestIDPropagated(t *testing.T) {
	engine := newTestEngine(t, &config.Config{}, nil, func(m *Middleware, e *gin.Engine) {
		e.Use(m.RequestID())
		e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestAuth(t *testing.T) {
	provider := &stubProvider{identity: &auth.Identity{
		UserID: "user-1",
		Email:  "user@example.com",
		Role:   auth.RoleGestao,
	}}

	var gotUser, gotRole string
	engine := newTestEngine(t, &config.Config{}, provider, func(m *Middleware, e *gin.Engine) {
		e.Use(m.Auth())
		e.GET("/", func(c *gin.Context) {
			gotUser = c.GetString("user_id")
			gotRole = c.GetString("user_role")
			c.Status(http.StatusOK)
		})
	})

	// No token
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bad token
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, "gestao", gotRole)
}

func TestRequireManager(t *testing.T) {
	tests := []struct {
		role auth.Role
		want int
	}{
		{auth.RoleMaster, http.StatusOK},
		{auth.RoleAdmin, http.StatusOK},
		{auth.RoleGestao, http.StatusOK},
		{auth.RoleUsuario, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			provider := &stubProvider{identity: &auth.Identity{
				UserID: "user-1",
				Role:   tt.role,
			}}

			engine := newTestEngine(t, &config.Config{}, provider, func(m *Middleware, e *gin.Engine) {
				e.Use(m.Auth())
				e.PUT("/", m.RequireManager(), func(c *gin.Context) {
					c.Status(http.StatusOK)
				})
			})

			req := httptest.NewRequest(http.MethodPut, "/", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role auth.Role
		want int
	}{
		{auth.RoleMaster, http.StatusOK},
		{auth.RoleAdmin, http.StatusOK},
		{auth.RoleGestao, http.StatusForbidden},
		{auth.RoleUsuario, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			provider := &stubProvider{identity: &auth.Identity{
				UserID: "user-1",
				Role:   tt.role,
			}}

			engine := newTestEngine(t, &config.Config{}, provider, func(m *Middleware, e *gin.Engine) {
				e.Use(m.Auth())
				e.POST("/", m.RequireAdmin(), func(c *gin.Context) {
					c.Status(http.StatusOK)
				})
			})

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.API.RateLimit.Enabled = true
	cfg.API.RateLimit.Requests = 2
	cfg.API.RateLimit.Window = time.Minute

	engine := newTestEngine(t, cfg, nil, func(m *Middleware, e *gin.Engine) {
		e.Use(m.RateLimit())
		e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestSecureHeaders(t *testing.T) {
	engine := newTestEngine(t, &config.Config{}, nil, func(m *Middleware, e *gin.Engine) {
		e.Use(m.Secure())
		e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
