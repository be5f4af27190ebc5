package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/unrolled/secure"
)

// SecureHeadersMiddleware sets the usual hardening headers on every response
func SecureHeadersMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         cfg.Deployment.Mode == types.ModeLocal,
	})

	return func(c *gin.Context) {
		if err := s.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		// secure may have redirected
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
