package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/auth"
	"github.com/tallybank/tallybank/internal/config"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	claims *auth.Claims
}

func (p stubProvider) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, ierr.NewError("bad token").Mark(ierr.ErrPermissionDenied)
	}
	return p.claims, nil
}

func TestErrorHandlerRendersHintAndStatus(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.NewNoopLogger()))
	r.GET("/x", func(c *gin.Context) {
		c.Error(ierr.NewError("stale").
			WithHint("Reload the invoice and retry").
			WithReportableDetails(map[string]any{"current": 3}).
			Mark(ierr.ErrVersionStale))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	var resp ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Reload the invoice and retry", resp.Error.Display)
	assert.Equal(t, ierr.ErrCodeVersionStale, resp.Error.Code)
	assert.EqualValues(t, 3, resp.Error.Details["current"])
}

func TestAuthenticateMiddleware(t *testing.T) {
	provider := stubProvider{claims: &auth.Claims{UserID: "u-1", Username: "alice", Roles: []string{"admin"}}}

	r := gin.New()
	r.Use(AuthenticateMiddleware(provider, logger.NewNoopLogger()))
	r.GET("/me", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"username": types.GetUsername(ctx),
			"admin":    types.IsAdmin(ctx),
			"jwt":      types.GetJWT(ctx),
		})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"invalid", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(types.HeaderAuthorization, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)

			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"username":"alice","admin":true,"jwt":"good"}`, w.Body.String())
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware)
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, types.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(types.HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(types.HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(types.HeaderRequestID))

	for _, bad := range []string{"has space", strings.Repeat("a", 65), "tab\tid"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(types.HeaderRequestID, bad)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.NotEqual(t, bad, w.Header().Get(types.HeaderRequestID))
		assert.Equal(t, w.Header().Get(types.HeaderRequestID), w.Body.String())
	}
}

func TestSentryMiddlewareOpensRequestHub(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Sentry.Enabled = true
	cfg.Deployment.Mode = types.ModeInvoice

	r := gin.New()
	r.Use(RequestIDMiddleware, SentryMiddleware(cfg), SentryScopeMiddleware)
	r.GET("/x", func(c *gin.Context) {
		assert.NotNil(t, sentrygin.GetHubFromContext(c))
		assert.Equal(t, string(types.ModeInvoice), c.GetString(sentryModeKey))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSentryMiddlewareDisabled(t *testing.T) {
	r := gin.New()
	r.Use(SentryMiddleware(config.GetDefaultConfig()), SentryScopeMiddleware)
	r.GET("/x", func(c *gin.Context) {
		assert.Nil(t, sentrygin.GetHubFromContext(c))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSPreflightAllowsVersionHeaders(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware)
	r.PUT("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), types.HeaderIfMatch)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), types.HeaderIdempotencyKey)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), types.HeaderETag)
}
