package service

import (
	"campus_eats/constants"
	"campus_eats/database"
	"campus_eats/model"
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ctx = context.Background()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newUser(t *testing.T, db *gorm.DB, role string) model.ActingUser {
	t.Helper()
	user := model.User{
		Name:         "user",
		Email:        fmt.Sprintf("%s@campus.test", uuid.NewString()),
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return model.ActingUser{ID: user.ID, Role: role}
}

func newStudent(t *testing.T, db *gorm.DB) model.ActingUser {
	return newUser(t, db, constants.ROLE_STUDENT)
}

func newMenuItem(t *testing.T, db *gorm.DB, name, price string) model.MenuItem {
	t.Helper()
	item := model.MenuItem{
		Name:     name,
		Slug:     uuid.NewString(),
		Price:    decimal.RequireFromString(price),
		Category: constants.MENU_MAIN,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	return item
}

// givePoints credits points through the ledger so balances stay consistent.
func givePoints(t *testing.T, db *gorm.DB, userID uuid.UUID, points int) *model.LoyaltyAccount {
	t.Helper()
	account, err := GetOrCreateAccount(ctx, db, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if err := creditPoints(db, account.ID, points, constants.LOYALTY_ADJUSTED, "test credit", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
	return account
}

func pointsOf(t *testing.T, db *gorm.DB, userID uuid.UUID) int {
	t.Helper()
	account, err := GetAccount(ctx, db, userID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return account.Points
}

// assertLedgerBalanced checks that the ledger sums to the stored balance.
func assertLedgerBalanced(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()
	account, err := GetAccount(ctx, db, userID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	var sum int
	if err := db.Model(&model.LoyaltyTransaction{}).
		Where("loyalty_account_id = ?", account.ID).
		Select("COALESCE(SUM(points_change), 0)").
		Scan(&sum).Error; err != nil {
		t.Fatalf("sum ledger: %v", err)
	}
	if sum != account.Points {
		t.Errorf("ledger sum = %d, account points = %d", sum, account.Points)
	}
}

func newCoupon(t *testing.T, db *gorm.DB, c model.Coupon) model.Coupon {
	t.Helper()
	if c.Name == "" {
		c.Name = "coupon"
	}
	c.IsActive = true
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create coupon: %v", err)
	}
	return c
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}
