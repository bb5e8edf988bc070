package database

import (
	"fmt"

	"relax_backend/internal/config"
	"relax_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с DSN из конфига
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	// TranslateError нужен, чтобы нарушение уникального индекса
	// приходило как gorm.ErrDuplicatedKey, а не сырой pg-код
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей и создает индексы,
// которые GORM-тегами не выразить
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.EmployeeProfile{},
		&models.Establishment{},
		&models.EstablishmentStaff{},
		&models.EstablishmentManager{},
		&models.VIPSubscription{},
		&models.PaymentTransaction{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	// Страховка инварианта "не более одной живой подписки на сущность":
	// частичный уникальный индекс ловит гонки, прошедшие мимо блокировки
	// в сервисе (например, с другого инстанса)
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_live_vip_per_entity
		ON vip_subscriptions (entity_id, tier)
		WHERE status IN ('pending_payment', 'active')
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create partial unique index: %w", err)
	}

	return nil
}
