package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/types"
)

// Browser clients need the version headers both ways: they send If-Match
// and If-None-Match and read ETag back.
var (
	allowedHeaders = strings.Join([]string{
		types.HeaderAuthorization,
		"Content-Type",
		types.HeaderIfMatch,
		types.HeaderIfNoneMatch,
		types.HeaderIdempotencyKey,
		types.HeaderRequestID,
	}, ", ")

	exposedHeaders = strings.Join([]string{
		types.HeaderETag,
		types.HeaderRequestID,
		types.HeaderIdempotentReplayed,
	}, ", ")
)

func CORSMiddleware(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	h.Set("Access-Control-Allow-Headers", allowedHeaders)
	h.Set("Access-Control-Expose-Headers", exposedHeaders)
	h.Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
