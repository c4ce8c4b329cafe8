package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
)

// SessionAuthMiddleware creates a Gin middleware handler that resolves the
// bearer token against the session store. The sessions table is the authority
// on validity; the token signature alone is never enough.
func SessionAuthMiddleware(authSvc portssvc.AuthSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header format must be Bearer {token}"})
			return
		}

		user, err := authSvc.ValidateSession(c.Request.Context(), parts[1])
		if err != nil {
			msg := "Invalid or expired session"
			if errors.Is(err, apperrors.ErrSessionExpired) {
				msg = "Session has expired"
			}
			logger.Warn("Session validation failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
			return
		}

		// Store the user in both contexts and enrich the request logger
		enrichedLogger := logger.With(slog.Int64("user_id", user.ID))
		ctx := context.WithValue(c.Request.Context(), userKey, user)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userKey), user)

		c.Next()
	}
}
