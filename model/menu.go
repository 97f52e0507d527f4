package model

import "github.com/shopspring/decimal"

type MenuItem struct {
	DTO
	Name        string          `gorm:"not null" json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description *string         `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"not null;index" json:"category"`
	ImageUrl    *string         `json:"imageUrl"`
	Allergens   []string        `gorm:"serializer:json" json:"allergens"`
}

type MenuItems []MenuItem

type CreateMenuItemInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description" validate:"omitempty,max=500"`
	Category    string          `json:"category" validate:"required,oneof=MAIN SIDE DRINK DESSERT SNACK"`
	ImageUrl    *string         `json:"imageUrl" validate:"omitempty,url"`
	Allergens   []string        `json:"allergens" validate:"omitempty,dive,max=50"`
}

type UpdateMenuItemInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price" copier:"-"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Category    *string          `json:"category" validate:"omitempty,oneof=MAIN SIDE DRINK DESSERT SNACK"`
	ImageUrl    *string          `json:"imageUrl" validate:"omitempty,url"`
	Allergens   []string         `json:"allergens" validate:"omitempty,dive,max=50"`
}

type FilterMenu struct {
	Category string `query:"category" validate:"omitempty,oneof=MAIN SIDE DRINK DESSERT SNACK"`
}
