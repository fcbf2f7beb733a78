package main

import (
	"os"
	"time"

	"leavetrack/internal/holiday"
	"leavetrack/internal/leave"
	"leavetrack/internal/messaging/kafka"
	"leavetrack/internal/rbac"
	"leavetrack/internal/shared/connection"
	"leavetrack/internal/user"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminEmail = "admin@company.com"

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&user.User{},
		&leave.Leave{},
		&holiday.Holiday{},
		&kafka.OutboxRow{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}
	logger.Info("schema migrated")

	if err := seedAdmin(db, logger); err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}

	if os.Getenv("SEED_DEMO") == "true" {
		if err := seedDemoHolidays(db, logger); err != nil {
			logger.Fatal("seed demo holidays failed", zap.Error(err))
		}
	}
}

func seedAdmin(db *gorm.DB, logger *zap.Logger) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}

	var count int64
	if err := db.Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("admin already present", zap.String("email", email))
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Name:                "System Administrator",
		Email:               email,
		Password:            string(hash),
		Role:                rbac.RoleAdmin,
		ForcePasswordChange: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("admin seeded", zap.String("email", email))
	return nil
}

func seedDemoHolidays(db *gorm.DB, logger *zap.Logger) error {
	year := time.Now().Year()
	demo := []holiday.Holiday{
		{Name: "New Year's Day", Date: time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Independence Day", Date: time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)},
		{Name: "Christmas Day", Date: time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)},
		{Name: "Year-End Freeze", Date: time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), IsCritical: true},
	}

	for _, h := range demo {
		var count int64
		if err := db.Model(&holiday.Holiday{}).Where("date = ?", h.Date).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&h).Error; err != nil {
			return err
		}
	}

	logger.Info("demo holidays seeded")
	return nil
}
