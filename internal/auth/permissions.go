package auth

import "relax_backend/internal/models"

// IsAdmin проверяет является ли пользователь администратором платформы
func IsAdmin(role models.UserRole) bool {
	return role == models.UserRoleAdmin
}
