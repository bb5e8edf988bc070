package app

import (
	"errors"
	"os"

	"relax_backend/internal/auth"
	"relax_backend/internal/logger"
	"relax_backend/internal/models"

	"gorm.io/gorm"
)

// seedFirstAdmin создает первого администратора из переменных окружения,
// если в базе еще нет ни одного. Без админа невозможно подтверждать
// платежи, поэтому отсутствие ADMIN_EMAIL при пустой базе - ошибка старта.
func seedFirstAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return errors.New("no admin user exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
	}

	if err := auth.ValidatePassword(adminPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("first admin user created", "email", adminEmail)
	return nil
}
