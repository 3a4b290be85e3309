package database

import (
	"fmt"

	"estate_backend/internal/logger"
	"estate_backend/internal/models"

	"gorm.io/gorm"
)

// Models - все таблицы приложения в порядке миграции
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.MemberProfile{},
		&models.AuthToken{},
		&models.PaymentIntent{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("AutoMigrate completed")
	return nil
}
