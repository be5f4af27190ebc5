package middleware

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/types"
)

// SentryMiddleware opens a per-request hub and tags its scope with the
// deployment mode and the request id. It must run after
// RequestIDMiddleware.
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	capture := sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	return func(c *gin.Context) {
		c.Set(sentryModeKey, string(mode))
		capture(c)
	}
}

const sentryModeKey = "sentry_deployment_mode"

// SentryScopeMiddleware copies request identity onto the hub opened by
// SentryMiddleware. It is a no-op when Sentry is disabled.
func SentryScopeMiddleware(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		tagScope(hub.Scope(), c.GetString(sentryModeKey), types.GetRequestID(c.Request.Context()))
	}
	c.Next()
}

func tagScope(scope *sentry.Scope, mode, requestID string) {
	if mode != "" {
		scope.SetTag("deployment_mode", mode)
	}
	if requestID != "" {
		scope.SetTag("request_id", requestID)
	}
}

// setSentryUser attaches the authenticated caller to the request hub
func setSentryUser(c *gin.Context, userID, username string) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.Scope().SetUser(sentry.User{ID: userID, Username: username})
	}
}
