package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ngoinfo/grantpilot/internal/infrastructure/auth"
	"github.com/ngoinfo/grantpilot/internal/shared/authorization"
	"github.com/ngoinfo/grantpilot/internal/shared/constants"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
	"github.com/ngoinfo/grantpilot/internal/shared/utils"
)

// AuthMiddleware verifies access tokens and loads the caller's
// identity into the request context.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, log logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     log,
	}
}

// RequireAuth rejects requests without a valid Bearer access token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Debugw("access token rejected", "error", err, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.Subject)
		c.Set(constants.ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(constants.ContextKeyUserRole)
		role, ok := value.(authorization.UserRole)
		if !exists || !ok || !role.IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, constants.ErrMsgForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
