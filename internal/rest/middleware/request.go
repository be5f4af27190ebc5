package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/types"
)

const maxRequestIDLength = 64

// RequestIDMiddleware keeps the caller's X-Request-ID so one id follows a
// payment through the invoice and account services. Missing or unusable ids
// are replaced.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if !usableRequestID(requestID) {
		requestID = types.GenerateUUID()
	}

	c.Request = c.Request.WithContext(types.SetRequestID(c.Request.Context(), requestID))
	c.Header(types.HeaderRequestID, requestID)
	c.Next()
}

// usableRequestID accepts short printable ASCII ids without spaces
func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
