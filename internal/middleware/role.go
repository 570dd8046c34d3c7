package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

// RequireRole must run after AuthMiddleware. Any one of roles is enough.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, role := range roles {
			if HasRole(c, role) {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Você não tem permissão para acessar este recurso.")
	}
}
