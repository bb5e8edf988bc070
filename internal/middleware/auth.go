package middleware

import (
	"net/http"
	"strings"

	"relax_backend/internal/auth"
	"relax_backend/internal/logger"
	"relax_backend/internal/models"
	"relax_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Сохраняем claims в контекст gin и user_id в context запроса (для логов)
		c.Set(contextkeys.UserIDKey.String(), claims.UserID)
		c.Set(contextkeys.RoleKey.String(), claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RoleMiddleware - middleware ограничения по ролям
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(contextkeys.RoleKey.String())
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
			return
		}

		if models.UserRole(roleStr) != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// CurrentUserID извлекает ID аутентифицированного пользователя из контекста
func CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get(contextkeys.UserIDKey.String()); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentRole извлекает роль аутентифицированного пользователя из контекста
func CurrentRole(c *gin.Context) models.UserRole {
	if v, ok := c.Get(contextkeys.RoleKey.String()); ok {
		if r, ok := v.(string); ok {
			return models.UserRole(r)
		}
	}
	return ""
}
