package middleware

import (
	"net/http"

	"bocal_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin — à poser après AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
			c.Abort()
			return
		}
		c.Next()
	}
}
