package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func CreateCoupon(ctx context.Context, db *gorm.DB, actor model.ActingUser, input model.CreateCouponInput) (*model.Coupon, error) {
	if !actor.Is(constants.ROLE_MANAGER) {
		return nil, ErrForbidden
	}
	if input.PointsCost <= 0 {
		return nil, fmt.Errorf("%w: pointsCost must be greater than zero", ErrInvalidInput)
	}
	switch input.Type {
	case constants.COUPON_FREE_ITEM:
		if input.SpecificMenuItemId == nil {
			return nil, fmt.Errorf("%w: free item coupons need a menu item", ErrInvalidInput)
		}
	case constants.COUPON_PERCENTAGE:
		if input.DiscountValue.Sign() <= 0 || input.DiscountValue.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidInput)
		}
	case constants.COUPON_FIXED_AMOUNT:
		if input.DiscountValue.Sign() <= 0 {
			return nil, fmt.Errorf("%w: discountValue must be greater than zero", ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown coupon type %q", ErrInvalidInput, input.Type)
	}
	if input.MinimumOrderAmount != nil && input.MinimumOrderAmount.Sign() < 0 {
		return nil, fmt.Errorf("%w: minimumOrderAmount cannot be negative", ErrInvalidInput)
	}

	db = db.WithContext(ctx)
	if input.SpecificMenuItemId != nil {
		var count int64
		if err := db.Model(&model.MenuItem{}).Where("id = ?", *input.SpecificMenuItemId).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, *input.SpecificMenuItemId)
		}
	}

	coupon := model.Coupon{
		Name:               input.Name,
		Description:        input.Description,
		Type:               input.Type,
		DiscountValue:      input.DiscountValue,
		PointsCost:         input.PointsCost,
		SpecificMenuItemId: input.SpecificMenuItemId,
		MinimumOrderAmount: input.MinimumOrderAmount,
		IsActive:           true,
		ExpiresAtUtc:       utcPtr(input.ExpiresAtUtc),
	}
	if err := db.Create(&coupon).Error; err != nil {
		return nil, err
	}
	slog.Info("coupon created", "coupon_id", coupon.ID, "type", coupon.Type, "points_cost", coupon.PointsCost)
	return &coupon, nil
}

// PurchaseCoupon trades loyalty points for a single-use entitlement.
func PurchaseCoupon(ctx context.Context, db *gorm.DB, userID, couponID uuid.UUID) (*model.UserCoupon, int, error) {
	var (
		userCoupon model.UserCoupon
		remaining  int
	)
	now := time.Now().UTC()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var coupon model.Coupon
		if err := tx.First(&coupon, "id = ?", couponID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCouponNotFound
			}
			return err
		}
		if !coupon.IsActive {
			return ErrCouponInactive
		}
		if coupon.ExpiredAt(now) {
			return ErrCouponExpired
		}

		account, err := GetAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		if account.Points < coupon.PointsCost {
			return ErrInsufficientPoints
		}
		if err := debitPoints(tx, account.ID, coupon.PointsCost, constants.LOYALTY_REDEEMED,
			fmt.Sprintf("Purchased coupon: %s", coupon.Name)); err != nil {
			return err
		}

		userCoupon = model.UserCoupon{
			UserId:        userID,
			CouponId:      coupon.ID,
			AcquiredAtUtc: now,
			IsUsed:        false,
			ExpiresAtUtc:  coupon.ExpiresAtUtc,
		}
		if err := tx.Create(&userCoupon).Error; err != nil {
			return err
		}
		remaining, err = currentPoints(tx, account.ID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	slog.Info("coupon purchased", "user_id", userID, "coupon_id", couponID, "user_coupon_id", userCoupon.ID)
	return &userCoupon, remaining, nil
}

// DeleteCoupon refunds pointsCost to every holder of the coupon, used or not,
// then removes the entitlements and the coupon. It returns the refunded users.
func DeleteCoupon(ctx context.Context, db *gorm.DB, actor model.ActingUser, couponID uuid.UUID) ([]uuid.UUID, error) {
	if !actor.Is(constants.ROLE_MANAGER) {
		return nil, ErrForbidden
	}

	refunded := []uuid.UUID{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var coupon model.Coupon
		if err := tx.First(&coupon, "id = ?", couponID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCouponNotFound
			}
			return err
		}

		var holders []model.UserCoupon
		if err := tx.Where("coupon_id = ?", coupon.ID).Find(&holders).Error; err != nil {
			return err
		}
		for _, uc := range holders {
			account, err := GetOrCreateAccount(ctx, tx, uc.UserId)
			if err != nil {
				return err
			}
			if err := creditPoints(tx, account.ID, coupon.PointsCost, constants.LOYALTY_ADJUSTED,
				fmt.Sprintf("Refund for deleted coupon: %s", coupon.Name), nil); err != nil {
				return err
			}
			refunded = append(refunded, uc.UserId)
		}

		if err := tx.Where("coupon_id = ?", coupon.ID).Delete(&model.UserCoupon{}).Error; err != nil {
			return err
		}
		return tx.Delete(&coupon).Error
	})
	if err != nil {
		return nil, err
	}
	slog.Info("coupon deleted", "coupon_id", couponID, "refunded_users", len(refunded))
	return refunded, nil
}

// GetAvailableCoupons lists active, unexpired coupons the user does not hold yet,
// cheapest first.
func GetAvailableCoupons(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.CouponDto, error) {
	now := time.Now().UTC()
	db = db.WithContext(ctx)

	var coupons []model.Coupon
	if err := db.Preload("SpecificMenuItem").
		Where("is_active = ? AND (expires_at_utc IS NULL OR expires_at_utc > ?)", true, now).
		Where("id NOT IN (?)", db.Model(&model.UserCoupon{}).Select("coupon_id").Where("user_id = ?", userID)).
		Order("points_cost asc").
		Find(&coupons).Error; err != nil {
		return nil, err
	}

	result := make([]model.CouponDto, 0, len(coupons))
	for _, c := range coupons {
		result = append(result, toCouponDto(c))
	}
	return result, nil
}

// ListCoupons returns every coupon for the manager view.
func ListCoupons(ctx context.Context, db *gorm.DB) ([]model.CouponDto, error) {
	var coupons []model.Coupon
	if err := db.WithContext(ctx).Preload("SpecificMenuItem").Order("created_at desc").Find(&coupons).Error; err != nil {
		return nil, err
	}
	result := make([]model.CouponDto, 0, len(coupons))
	for _, c := range coupons {
		result = append(result, toCouponDto(c))
	}
	return result, nil
}

// GetUserCoupons lists the user's unused, unexpired entitlements, newest first.
func GetUserCoupons(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.UserCouponDto, error) {
	now := time.Now().UTC()
	var userCoupons []model.UserCoupon
	if err := db.WithContext(ctx).
		Preload("Coupon").
		Preload("Coupon.SpecificMenuItem").
		Where("user_id = ? AND is_used = ? AND (expires_at_utc IS NULL OR expires_at_utc > ?)", userID, false, now).
		Order("acquired_at_utc desc").
		Find(&userCoupons).Error; err != nil {
		return nil, err
	}

	result := make([]model.UserCouponDto, 0, len(userCoupons))
	for _, uc := range userCoupons {
		result = append(result, model.UserCouponDto{
			ID:                   uc.ID,
			CouponId:             uc.CouponId,
			CouponName:           uc.Coupon.Name,
			CouponDescription:    uc.Coupon.Description,
			Type:                 uc.Coupon.Type,
			DiscountValue:        uc.Coupon.DiscountValue,
			MinimumOrderAmount:   uc.Coupon.MinimumOrderAmount,
			SpecificMenuItemId:   uc.Coupon.SpecificMenuItemId,
			SpecificMenuItemName: menuItemName(uc.Coupon.SpecificMenuItem),
			AcquiredAtUtc:        uc.AcquiredAtUtc,
			ExpiresAtUtc:         uc.ExpiresAtUtc,
			IsUsed:               uc.IsUsed,
			UsedAtUtc:            uc.UsedAtUtc,
		})
	}
	return result, nil
}

// DeactivateExpiredCoupons flips isActive off for coupons past their expiry.
func DeactivateExpiredCoupons(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Model(&model.Coupon{}).
		Where("is_active = ? AND expires_at_utc IS NOT NULL AND expires_at_utc <= ?", true, time.Now().UTC()).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// resolveCoupon finds a usable entitlement for the basket. A coupon that is
// unknown, foreign, used, expired or inactive yields nil with no error; an
// unmet minimum order amount is an error when enforceMinimum is set.
func resolveCoupon(tx *gorm.DB, userCouponID, userID uuid.UUID, subtotal decimal.Decimal, now time.Time, enforceMinimum bool) (*model.UserCoupon, error) {
	var uc model.UserCoupon
	err := tx.Preload("Coupon").
		Where("id = ? AND user_id = ? AND is_used = ? AND (expires_at_utc IS NULL OR expires_at_utc > ?)",
			userCouponID, userID, false, now).
		First(&uc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !uc.Coupon.IsActive {
		return nil, nil
	}
	if minimum := uc.Coupon.MinimumOrderAmount; enforceMinimum && minimum != nil && subtotal.LessThan(*minimum) {
		return nil, fmt.Errorf("%w: subtotal %s is below %s", ErrMinimumOrderNotMet, subtotal.StringFixed(2), minimum.StringFixed(2))
	}
	return &uc, nil
}

// quoteCoupon prices a coupon against a basket without consuming it.
func quoteCoupon(tx *gorm.DB, userCouponID, userID uuid.UUID, subtotal decimal.Decimal, items []model.OrderItem, enforceMinimum bool) (decimal.Decimal, *model.UserCoupon, error) {
	uc, err := resolveCoupon(tx, userCouponID, userID, subtotal, time.Now().UTC(), enforceMinimum)
	if err != nil || uc == nil {
		return decimal.Zero, nil, err
	}
	// The menu item behind a free item coupon was deleted.
	if uc.Coupon.Type == constants.COUPON_FREE_ITEM && uc.Coupon.SpecificMenuItemId == nil {
		return decimal.Zero, nil, nil
	}
	d, err := DiscountFromCoupon(uc.Coupon)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return ComputeDiscount(d, subtotal, items), uc, nil
}

// ApplyCouponToOrder discounts an order that has not been written yet and marks
// the entitlement used. It must run in the transaction that persists the order.
func ApplyCouponToOrder(tx *gorm.DB, userCouponID, userID uuid.UUID, order *model.Order) error {
	return applyCoupon(tx, userCouponID, userID, order, true)
}

// applyCoupon skips the minimum order check when enforceMinimum is false, for
// baskets that were already priced and paid.
func applyCoupon(tx *gorm.DB, userCouponID, userID uuid.UUID, order *model.Order, enforceMinimum bool) error {
	discount, uc, err := quoteCoupon(tx, userCouponID, userID, order.Subtotal, order.Items, enforceMinimum)
	if err != nil || uc == nil {
		return err
	}

	now := time.Now().UTC()
	res := tx.Model(&model.UserCoupon{}).
		Where("id = ? AND is_used = ?", uc.ID, false).
		Updates(map[string]any{
			"is_used":          true,
			"used_at_utc":      now,
			"used_in_order_id": order.ID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// consumed by a concurrent order
		return nil
	}

	order.DiscountAmount = discount
	order.Total = totalAfter(order.Subtotal, discount)
	order.AppliedCouponId = &uc.ID
	return nil
}

func toCouponDto(c model.Coupon) model.CouponDto {
	return model.CouponDto{
		ID:                   c.ID,
		Name:                 c.Name,
		Description:          c.Description,
		Type:                 c.Type,
		DiscountValue:        c.DiscountValue,
		PointsCost:           c.PointsCost,
		SpecificMenuItemId:   c.SpecificMenuItemId,
		SpecificMenuItemName: menuItemName(c.SpecificMenuItem),
		MinimumOrderAmount:   c.MinimumOrderAmount,
		IsActive:             c.IsActive,
		ExpiresAtUtc:         c.ExpiresAtUtc,
	}
}

func menuItemName(item *model.MenuItem) *string {
	if item == nil {
		return nil
	}
	name := item.Name
	return &name
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
