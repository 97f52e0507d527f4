package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func GetMenu(ctx context.Context, db *gorm.DB, filter model.FilterMenu) (model.MenuItems, error) {
	query := db.WithContext(ctx).Order("category asc, name asc")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	items := model.MenuItems{}
	err := query.Find(&items).Error
	return items, err
}

func GetMenuItem(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func CreateMenuItem(ctx context.Context, db *gorm.DB, actor model.ActingUser, input model.CreateMenuItemInput) (*model.MenuItem, error) {
	if !actor.Is(constants.ROLE_MANAGER) {
		return nil, ErrForbidden
	}
	if input.Price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	}

	var item model.MenuItem
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := copier.Copy(&item, &input); err != nil {
			return err
		}
		item.Slug = uniqueMenuSlug(tx, input.Name, uuid.Nil)
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	slog.Info("menu item created", "menu_item_id", item.ID, "slug", item.Slug)
	return &item, nil
}

// UpdateMenuItem changes the catalogue entry only. Existing order lines keep
// the price captured when they were placed.
func UpdateMenuItem(ctx context.Context, db *gorm.DB, actor model.ActingUser, id uuid.UUID, input model.UpdateMenuItemInput) (*model.MenuItem, error) {
	if !actor.Is(constants.ROLE_MANAGER) {
		return nil, ErrForbidden
	}
	if input.Price != nil && input.Price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	}

	var item model.MenuItem
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMenuItemNotFound
			}
			return err
		}
		nameChanged := input.Name != nil && *input.Name != item.Name
		if err := copier.CopyWithOption(&item, &input, copier.Option{IgnoreEmpty: true}); err != nil {
			return err
		}
		if input.Price != nil {
			item.Price = *input.Price
		}
		if nameChanged {
			item.Slug = uniqueMenuSlug(tx, item.Name, item.ID)
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func DeleteMenuItem(ctx context.Context, db *gorm.DB, actor model.ActingUser, id uuid.UUID) error {
	if !actor.Is(constants.ROLE_MANAGER) {
		return ErrForbidden
	}
	var retired int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Coupon{}).
			Where("type = ? AND specific_menu_item_id = ? AND is_active = ?", constants.COUPON_FREE_ITEM, id, true).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		retired = res.RowsAffected

		res = tx.Delete(&model.MenuItem{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMenuItemNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("menu item deleted", "menu_item_id", id, "coupons_deactivated", retired)
	return nil
}

// SetMenuItemImage stores the public URL returned by the image store.
func SetMenuItemImage(ctx context.Context, db *gorm.DB, id uuid.UUID, url string) (*model.MenuItem, error) {
	item, err := GetMenuItem(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(item).Update("image_url", url).Error; err != nil {
		return nil, err
	}
	item.ImageUrl = &url
	return item, nil
}

func uniqueMenuSlug(tx *gorm.DB, name string, exclude uuid.UUID) string {
	base := slug.Make(name)
	if base == "" {
		base = "item"
	}
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.MenuItem{}).
			Where("slug = ? AND id <> ?", result, exclude).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}
