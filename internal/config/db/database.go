package db

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/domain/notification"
	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/rate"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DbHost,
		config.DbPort,
		config.DbUser,
		config.DbPassword,
		config.DbName,
	)
}

func Init() {
	var err error
	DB, err = gorm.Open(postgres.Open(DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	slog.Info("database connected and migrated", "host", config.DbHost, "name", config.DbName)
}

// Migrate creates or updates every table the portal owns.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&user.User{},
		&quotation.Quotation{},
		&quotation.File{},
		&quotation.InfoFile{},
		&notification.Notification{},
		&rate.Config{},
		&payment.HourPurchase{},
	)
}

func InitWithGormDB(gormDB *gorm.DB) {
	DB = gormDB
}
