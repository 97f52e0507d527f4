package database

import (
	"campus_eats/constants"
	"campus_eats/model"
	"log/slog"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("Manager123!"), 10)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		return
	}
	users := []model.User{
		{Name: "Campus Manager", Email: "manager@campuseats.local", PasswordHash: string(bytes), Role: constants.ROLE_MANAGER},
		{Name: "Kitchen Worker", Email: "kitchen@campuseats.local", PasswordHash: string(bytes), Role: constants.ROLE_WORKER},
	}
	for _, user := range users {
		if err := db.Where(model.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
			slog.Error("failed to seed user", "email", user.Email, "error", err)
		}
	}

	menu := []model.MenuItem{
		{Name: "Pizza Margherita", Price: decimal.RequireFromString("20.00"), Category: constants.MENU_MAIN, Allergens: []string{"gluten", "lactose"}},
		{Name: "Chicken Wrap", Price: decimal.RequireFromString("18.50"), Category: constants.MENU_MAIN, Allergens: []string{"gluten"}},
		{Name: "French Fries", Price: decimal.RequireFromString("8.00"), Category: constants.MENU_SIDE, Allergens: []string{}},
		{Name: "Coca-Cola", Price: decimal.RequireFromString("5.00"), Category: constants.MENU_DRINK, Allergens: []string{}},
		{Name: "Brownie", Price: decimal.RequireFromString("7.50"), Category: constants.MENU_DESSERT, Allergens: []string{"gluten", "eggs", "nuts"}},
	}
	for _, item := range menu {
		item.Slug = slug.Make(item.Name)
		if err := db.Where(model.MenuItem{Slug: item.Slug}).FirstOrCreate(&item).Error; err != nil {
			slog.Error("failed to seed menu item", "name", item.Name, "error", err)
		}
	}
}
