package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"campus_eats/utils"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PointsForTotal returns floor(total / 10).
func PointsForTotal(total decimal.Decimal) int {
	if total.Sign() <= 0 {
		return 0
	}
	return int(total.Div(decimal.NewFromInt(constants.POINTS_PER_CURRENCY_UNIT)).Floor().IntPart())
}

// GetOrCreateAccount returns the user's loyalty account, creating an empty one
// on first use.
func GetOrCreateAccount(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.LoyaltyAccount, error) {
	var account model.LoyaltyAccount
	if err := db.WithContext(ctx).
		Where(model.LoyaltyAccount{UserId: userID}).
		FirstOrCreate(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func GetAccount(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.LoyaltyAccount, error) {
	var account model.LoyaltyAccount
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetTransactions lists the user's ledger, newest first. A user without an
// account gets an empty list.
func GetTransactions(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.LoyaltyTransaction, error) {
	transactions := []model.LoyaltyTransaction{}
	err := db.WithContext(ctx).
		Joins("JOIN loyalty_accounts ON loyalty_accounts.id = loyalty_transactions.loyalty_account_id").
		Where("loyalty_accounts.user_id = ?", userID).
		Order("loyalty_transactions.created_at desc").
		Find(&transactions).Error
	return transactions, err
}

// ListTransactions is GetTransactions with limit/page applied.
func ListTransactions(ctx context.Context, db *gorm.DB, userID uuid.UUID, p model.Pagination) (*model.ResponseCustom, error) {
	query := db.WithContext(ctx).
		Model(&model.LoyaltyTransaction{}).
		Joins("JOIN loyalty_accounts ON loyalty_accounts.id = loyalty_transactions.loyalty_account_id").
		Where("loyalty_accounts.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	transactions := []model.LoyaltyTransaction{}
	err := utils.ApplyPagination(query, p.Limit, p.Page).
		Order("loyalty_transactions.created_at desc").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return &model.ResponseCustom{
		Rows:       transactions,
		Limit:      p.Limit,
		Page:       p.Page,
		TotalCount: total,
	}, nil
}

// AwardPointsForOrder credits floor(total/10) points for an order. It does not
// check whether the order was already rewarded; callers invoke it once per order.
func AwardPointsForOrder(ctx context.Context, db *gorm.DB, userID, orderID uuid.UUID, total decimal.Decimal) (int, error) {
	points := PointsForTotal(total)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := GetOrCreateAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		if points <= 0 {
			return nil
		}
		return creditPoints(tx, account.ID, points, constants.LOYALTY_EARNED,
			fmt.Sprintf("Points earned for order %s", orderID), &orderID)
	})
	if err != nil {
		return 0, err
	}
	if points > 0 {
		slog.Info("loyalty points awarded", "user_id", userID, "order_id", orderID, "points", points)
	}
	return points, nil
}

// RedeemPoints spends points directly and returns the remaining balance.
func RedeemPoints(ctx context.Context, db *gorm.DB, userID uuid.UUID, points int, description string) (int, error) {
	if points <= 0 {
		return 0, fmt.Errorf("%w: points must be greater than zero", ErrInvalidInput)
	}

	var remaining int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := GetAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		if account.Points < points {
			return ErrInsufficientPoints
		}
		if err := debitPoints(tx, account.ID, points, constants.LOYALTY_REDEEMED, description); err != nil {
			return err
		}
		remaining, err = currentPoints(tx, account.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func creditPoints(tx *gorm.DB, accountID uuid.UUID, points int, kind, description string, orderID *uuid.UUID) error {
	if err := tx.Model(&model.LoyaltyAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"points":     gorm.Expr("points + ?", points),
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
		return err
	}
	return tx.Create(&model.LoyaltyTransaction{
		LoyaltyAccountId: accountID,
		PointsChange:     points,
		Type:             kind,
		Description:      description,
		RelatedOrderId:   orderID,
	}).Error
}

// debitPoints only succeeds while the balance covers the amount, so two
// concurrent spends cannot drive an account negative.
func debitPoints(tx *gorm.DB, accountID uuid.UUID, points int, kind, description string) error {
	res := tx.Model(&model.LoyaltyAccount{}).
		Where("id = ? AND points >= ?", accountID, points).
		Updates(map[string]any{
			"points":     gorm.Expr("points - ?", points),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientPoints
	}
	return tx.Create(&model.LoyaltyTransaction{
		LoyaltyAccountId: accountID,
		PointsChange:     -points,
		Type:             kind,
		Description:      description,
	}).Error
}

func currentPoints(tx *gorm.DB, accountID uuid.UUID) (int, error) {
	var points int
	err := tx.Model(&model.LoyaltyAccount{}).Where("id = ?", accountID).Select("points").Scan(&points).Error
	return points, err
}
