package database

import (
	"fmt"
	"strings"

	"estate_backend/internal/config"
	"estate_backend/internal/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open подключается к базе по драйверу из конфигурации.
// TranslateError включен: репозитории опираются на gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var gormLog gormlogger.Interface = NewGormLogger()
	if !cfg.Database.LogQueries {
		gormLog = gormLog.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	logger.Info("database connected", "driver", cfg.Database.Driver)
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
