package db

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-manager/internal/config"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

func NewDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      newGormLogger(logger, cfg.LogLevel == "debug"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Client{},
		&models.Service{},
		&models.Appointment{},
		&models.TransactionCategory{},
		&models.Transaction{},
		&models.StudioSettings{},
		&models.PublicBooking{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}
