package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	DTO
	// OrderId stays null until the checkout is confirmed.
	OrderId         *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"orderId"`
	UserId          uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency        string          `gorm:"not null" json:"currency"`
	Status          string          `gorm:"not null;index" json:"status"`
	StripeSessionId *string         `gorm:"index" json:"stripeSessionId"`
	CompletedAtUtc  *time.Time      `json:"completedAtUtc"`
}

type CreatePaymentSessionInput struct {
	Items        []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Notes        *string          `json:"notes" validate:"omitempty,max=500"`
	UserCouponId *uuid.UUID       `json:"userCouponId"`
}

// CheckoutRequest is what the hosted checkout provider is asked to charge.
type CheckoutRequest struct {
	Description string
	Amount      decimal.Decimal
	Currency    string
	Metadata    map[string]string
}

type CheckoutSession struct {
	SessionId string `json:"sessionId"`
	Url       string `json:"url"`
}
