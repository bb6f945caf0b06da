package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-magic-api/internal/service"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
	"github.com/noah-isme/result-magic-api/pkg/logger"
	"github.com/noah-isme/result-magic-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token. The claims are stored under
// ContextUserKey and the school and user ids are exposed to the request logger.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.ContextSchoolKey, claims.SchoolID)
		c.Set(logger.ContextActorKey, claims.UserID)
		c.Next()
	}
}
