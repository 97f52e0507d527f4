package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Coupon struct {
	DTO
	Name               string           `gorm:"not null" json:"name"`
	Description        string           `gorm:"type:text" json:"description"`
	Type               string           `gorm:"not null" json:"type"` // PercentageDiscount, FixedAmountDiscount, FreeItem
	DiscountValue      decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"discountValue"`
	PointsCost         int              `gorm:"not null" json:"pointsCost"`
	SpecificMenuItemId *uuid.UUID       `gorm:"type:uuid" json:"specificMenuItemId"`
	MinimumOrderAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"minimumOrderAmount"`
	IsActive           bool             `gorm:"not null" json:"isActive"`
	ExpiresAtUtc       *time.Time       `json:"expiresAtUtc"`

	SpecificMenuItem *MenuItem `gorm:"foreignKey:SpecificMenuItemId;constraint:OnDelete:SET NULL" json:"-"`
}

func (c Coupon) ExpiredAt(now time.Time) bool {
	return c.ExpiresAtUtc != nil && !c.ExpiresAtUtc.After(now)
}

// UserCoupon is a purchased single-use entitlement. ExpiresAtUtc is copied from
// the coupon at purchase time.
type UserCoupon struct {
	DTO
	UserId        uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	CouponId      uuid.UUID  `gorm:"type:uuid;not null;index" json:"couponId"`
	AcquiredAtUtc time.Time  `gorm:"not null" json:"acquiredAtUtc"`
	IsUsed        bool       `gorm:"not null" json:"isUsed"`
	UsedAtUtc     *time.Time `json:"usedAtUtc"`
	UsedInOrderId *uuid.UUID `gorm:"type:uuid" json:"usedInOrderId"`
	ExpiresAtUtc  *time.Time `json:"expiresAtUtc"`

	Coupon Coupon `gorm:"foreignKey:CouponId" json:"-"`
}

type CreateCouponInput struct {
	Name               string           `json:"name" validate:"required,max=100"`
	Description        string           `json:"description" validate:"required,max=500"`
	Type               string           `json:"type" validate:"required,oneof=PercentageDiscount FixedAmountDiscount FreeItem"`
	DiscountValue      decimal.Decimal  `json:"discountValue"`
	PointsCost         int              `json:"pointsCost" validate:"required,gt=0"`
	SpecificMenuItemId *uuid.UUID       `json:"specificMenuItemId" validate:"required_if=Type FreeItem"`
	MinimumOrderAmount *decimal.Decimal `json:"minimumOrderAmount"`
	ExpiresAtUtc       *time.Time       `json:"expiresAtUtc"`
}

type PurchaseCouponInput struct {
	CouponId uuid.UUID `json:"couponId" validate:"required"`
}

type PurchaseCouponResult struct {
	Success         bool       `json:"success"`
	Message         string     `json:"message"`
	UserCouponId    *uuid.UUID `json:"userCouponId,omitempty"`
	RemainingPoints *int       `json:"remainingPoints,omitempty"`
}

type CouponDto struct {
	ID                   uuid.UUID        `json:"id"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	Type                 string           `json:"type"`
	DiscountValue        decimal.Decimal  `json:"discountValue"`
	PointsCost           int              `json:"pointsCost"`
	SpecificMenuItemId   *uuid.UUID       `json:"specificMenuItemId"`
	SpecificMenuItemName *string          `json:"specificMenuItemName"`
	MinimumOrderAmount   *decimal.Decimal `json:"minimumOrderAmount"`
	IsActive             bool             `json:"isActive"`
	ExpiresAtUtc         *time.Time       `json:"expiresAtUtc"`
}

type UserCouponDto struct {
	ID                   uuid.UUID        `json:"id"`
	CouponId             uuid.UUID        `json:"couponId"`
	CouponName           string           `json:"couponName"`
	CouponDescription    string           `json:"couponDescription"`
	Type                 string           `json:"type"`
	DiscountValue        decimal.Decimal  `json:"discountValue"`
	MinimumOrderAmount   *decimal.Decimal `json:"minimumOrderAmount"`
	SpecificMenuItemId   *uuid.UUID       `json:"specificMenuItemId"`
	SpecificMenuItemName *string          `json:"specificMenuItemName"`
	AcquiredAtUtc        time.Time        `json:"acquiredAtUtc"`
	ExpiresAtUtc         *time.Time       `json:"expiresAtUtc"`
	IsUsed               bool             `json:"isUsed"`
	UsedAtUtc            *time.Time       `json:"usedAtUtc"`
}

type DeleteCouponResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RefundedUsers int    `json:"refundedUsers"`
}
