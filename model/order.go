package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	DTO
	UserId         uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	Status         string          `gorm:"not null;index" json:"status"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discountAmount"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Notes          *string         `gorm:"type:text" json:"notes"`
	// AppliedCouponId is the UserCoupon consumed by this order.
	AppliedCouponId      *uuid.UUID  `gorm:"type:uuid" json:"appliedCouponId"`
	LoyaltyPointsAwarded bool        `gorm:"not null" json:"loyaltyPointsAwarded"`
	CancelledAt          *time.Time  `json:"cancelledAt"`
	Items                []OrderItem `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	DTO
	OrderId    uuid.UUID       `gorm:"type:uuid;not null;index" json:"orderId"`
	MenuItemId uuid.UUID       `gorm:"type:uuid;not null" json:"menuItemId"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderItemInput struct {
	MenuItemId uuid.UUID `json:"menuItemId" validate:"required"`
	Quantity   int       `json:"quantity"`
}

type PlaceOrderInput struct {
	Items        []OrderItemInput `json:"items" validate:"required,dive"`
	Notes        *string          `json:"notes" validate:"omitempty,max=500"`
	UserCouponId *uuid.UUID       `json:"userCouponId"`
}

type FilterOrder struct {
	All bool `query:"all"`
}

type OrderItemDto struct {
	ID           uuid.UUID       `json:"id"`
	MenuItemId   uuid.UUID       `json:"menuItemId"`
	MenuItemName *string         `json:"menuItemName"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

type OrderDto struct {
	ID              uuid.UUID       `json:"id"`
	UserId          uuid.UUID       `json:"userId"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Total           decimal.Decimal `json:"total"`
	Notes           *string         `json:"notes"`
	AppliedCouponId *uuid.UUID      `json:"appliedCouponId"`
	CreatedAtUtc    time.Time       `json:"createdAtUtc"`
	UpdatedAtUtc    time.Time       `json:"updatedAtUtc"`
	Items           []OrderItemDto  `json:"items"`
	QrCode          string          `json:"qrCode,omitempty"`
}
