package database

import (
	"campus_eats/config"
	"campus_eats/model"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB(cfg *config.AppConfig) {
	var err error

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	DB, err = gorm.Open(postgres.Open(dsn), GormConfig())

	if err != nil {
		panic("failed to connect database")
	}

	slog.Info("connection opened to database", "host", cfg.DBHost, "db", cfg.DBName)
	if err := Migrate(DB); err != nil {
		panic(fmt.Sprintf("failed to migrate database: %v", err))
	}
	slog.Info("database migrated")

	SeedData(DB)
}

// GormConfig stamps every timestamp in UTC.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.LoyaltyAccount{},
		&model.LoyaltyTransaction{},
		&model.Coupon{},
		&model.UserCoupon{},
		&model.Payment{},
		&model.KitchenTask{},
	)
}
