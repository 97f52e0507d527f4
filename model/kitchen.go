package model

import "github.com/google/uuid"

type KitchenTask struct {
	DTO
	OrderId    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"orderId"`
	Status     string     `gorm:"not null;index" json:"status"`
	AssignedTo *uuid.UUID `gorm:"type:uuid" json:"assignedTo"`
	Notes      *string    `gorm:"type:text" json:"notes"`
}

type UpdateKitchenTaskInput struct {
	Status     *string    `json:"status"`
	AssignedTo *uuid.UUID `json:"assignedTo"`
	Notes      *string    `json:"notes" validate:"omitempty,max=500"`
}

type FilterKitchenTask struct {
	Status string `query:"status"`
}

// KitchenEvent is pushed to kitchen board subscribers.
type KitchenEvent struct {
	Type        string      `json:"type"` // task.created, task.updated
	Task        KitchenTask `json:"task"`
	OrderStatus string      `json:"orderStatus"`
}
