package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/auth"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/types"
)

// AuthenticateMiddleware validates the bearer token in the Authorization
// header and puts the caller identity and the raw token in the request
// context for downstream handlers and outgoing calls
func AuthenticateMiddleware(provider auth.Provider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, "Unauthorized")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := provider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			abortUnauthorized(c, "Invalid token")
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetUserID(ctx, claims.UserID)
		ctx = types.SetUsername(ctx, claims.Username)
		ctx = types.SetRoles(ctx, claims.Roles)
		ctx = types.SetJWT(ctx, tokenString)
		c.Request = c.Request.WithContext(ctx)
		setSentryUser(c, claims.UserID, claims.Username)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ierr.ErrorResponse{
		Success: false,
		Error: ierr.ErrorDetail{
			Display: msg,
			Code:    "unauthorized",
		},
	})
}
