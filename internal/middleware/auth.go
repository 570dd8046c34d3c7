package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/auth"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

const (
	ContextUserID    = "userID"
	ContextUserRoles = "userRoles"
)

func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Cabeçalho Authorization ausente.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Use o formato: Bearer <token>.")
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Token inválido ou expirado.")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRoles, claims.Roles)

		c.Next()
	}
}

func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func GetRoles(c *gin.Context) []models.Role {
	v, _ := c.Get(ContextUserRoles)
	roles, _ := v.([]models.Role)
	return roles
}

// HasRole reports whether the authenticated user holds role.
func HasRole(c *gin.Context, role models.Role) bool {
	for _, r := range GetRoles(c) {
		if r == role {
			return true
		}
	}
	return false
}
