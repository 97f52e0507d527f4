package model

import "github.com/google/uuid"

type LoyaltyAccount struct {
	DTO
	UserId uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Points int       `gorm:"not null" json:"points"`
}

// LoyaltyTransaction rows are append-only.
type LoyaltyTransaction struct {
	DTO
	LoyaltyAccountId uuid.UUID  `gorm:"type:uuid;not null;index" json:"loyaltyAccountId"`
	PointsChange     int        `gorm:"not null" json:"pointsChange"`
	Type             string     `gorm:"not null" json:"type"`
	Description      string     `gorm:"not null" json:"description"`
	RelatedOrderId   *uuid.UUID `gorm:"type:uuid" json:"relatedOrderId"`

	LoyaltyAccount LoyaltyAccount `gorm:"foreignKey:LoyaltyAccountId;constraint:OnDelete:CASCADE" json:"-"`
}

type RedeemPointsInput struct {
	Points      int    `json:"points" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=200"`
}

type RedeemPointsResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	RemainingPoints *int   `json:"remainingPoints,omitempty"`
}
