package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlacedOrder is what order creation hands back to the transport layer.
type PlacedOrder struct {
	Order *model.Order
	Task  *model.KitchenTask
}

// PlaceOrder prices the basket, applies the optional coupon and writes the
// order, its items and its kitchen task in one transaction.
func PlaceOrder(ctx context.Context, db *gorm.DB, actor model.ActingUser, input model.PlaceOrderInput) (*PlacedOrder, error) {
	var placed *PlacedOrder
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := buildOrder(tx, actor.ID, input.Items, input.Notes)
		if err != nil {
			return err
		}
		order.Status = constants.ORDER_PENDING
		if input.UserCouponId != nil {
			if err := ApplyCouponToOrder(tx, *input.UserCouponId, actor.ID, order); err != nil {
				return err
			}
		}
		task, err := createOrderWithKitchenTask(tx, order)
		if err != nil {
			return err
		}
		placed = &PlacedOrder{Order: order, Task: task}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("order placed",
		"order_id", placed.Order.ID,
		"user_id", actor.ID,
		"total", placed.Order.Total.StringFixed(2),
		"coupon", placed.Order.AppliedCouponId != nil)
	return placed, nil
}

// buildOrder validates and prices the basket. Nothing is written.
func buildOrder(tx *gorm.DB, userID uuid.UUID, items []model.OrderItemInput, notes *string) (*model.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	quantities := map[uuid.UUID]int{}
	ids := []uuid.UUID{}
	for _, item := range items {
		if _, seen := quantities[item.MenuItemId]; !seen {
			ids = append(ids, item.MenuItemId)
		}
		quantities[item.MenuItemId] += item.Quantity
	}
	for _, id := range ids {
		if quantities[id] <= 0 {
			return nil, fmt.Errorf("%w: menu item %s", ErrInvalidQuantity, id)
		}
	}

	var menuItems []model.MenuItem
	if err := tx.Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}
	missing := []string{}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, strings.Join(missing, ", "))
	}

	order := &model.Order{
		UserId:         userID,
		Notes:          notes,
		DiscountAmount: decimal.Zero,
	}
	order.ID = uuid.New()
	subtotal := decimal.Zero
	for _, id := range ids {
		line := model.OrderItem{
			OrderId:    order.ID,
			MenuItemId: id,
			Quantity:   quantities[id],
			UnitPrice:  byID[id].Price,
		}
		subtotal = subtotal.Add(line.LineTotal())
		order.Items = append(order.Items, line)
	}
	order.Subtotal = subtotal
	order.Total = subtotal
	return order, nil
}

func createOrderWithKitchenTask(tx *gorm.DB, order *model.Order) (*model.KitchenTask, error) {
	if err := tx.Create(order).Error; err != nil {
		return nil, err
	}
	assignee := order.UserId
	task := &model.KitchenTask{
		OrderId:    order.ID,
		Status:     constants.KITCHEN_NOT_STARTED,
		AssignedTo: &assignee,
		Notes:      order.Notes,
	}
	if err := tx.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func CancelOrder(ctx context.Context, db *gorm.DB, actor model.ActingUser, orderID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if isTerminal(order.Status) {
			return ErrAlreadyTerminal
		}
		if order.UserId != actor.ID && !actor.Is(constants.ROLE_MANAGER) {
			return ErrForbidden
		}
		now := time.Now().UTC()
		order.Status = constants.ORDER_CANCELLED
		order.CancelledAt = &now
		return tx.Model(&order).Updates(map[string]any{
			"status":       order.Status,
			"cancelled_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	slog.Info("order cancelled", "order_id", order.ID, "by", actor.ID)
	return &order, nil
}

// GetOrders returns the caller's orders, or every order when a manager asks
// for all of them.
func GetOrders(ctx context.Context, db *gorm.DB, actor model.ActingUser, all bool) ([]model.OrderDto, error) {
	query := db.WithContext(ctx).Preload("Items").Order("created_at desc")
	if !(all && actor.Is(constants.ROLE_MANAGER)) {
		query = query.Where("user_id = ?", actor.ID)
	}
	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	names, err := menuNames(db.WithContext(ctx), orders)
	if err != nil {
		return nil, err
	}

	result := make([]model.OrderDto, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderDto(o, names))
	}
	return result, nil
}

// GetOrder returns one order visible to the caller. Orders of other users read
// as not found unless the caller is a manager.
func GetOrder(ctx context.Context, db *gorm.DB, actor model.ActingUser, orderID uuid.UUID) (*model.OrderDto, error) {
	var order model.Order
	if err := db.WithContext(ctx).Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserId != actor.ID && !actor.Is(constants.ROLE_MANAGER) {
		return nil, ErrOrderNotFound
	}
	names, err := menuNames(db.WithContext(ctx), []model.Order{order})
	if err != nil {
		return nil, err
	}
	dto := toOrderDto(order, names)
	return &dto, nil
}

func isTerminal(status string) bool {
	return status == constants.ORDER_CANCELLED || status == constants.ORDER_COMPLETED
}

// menuNames resolves every menu item referenced by the orders in one query.
func menuNames(db *gorm.DB, orders []model.Order) (map[uuid.UUID]string, error) {
	idSet := map[uuid.UUID]struct{}{}
	for _, o := range orders {
		for _, item := range o.Items {
			idSet[item.MenuItemId] = struct{}{}
		}
	}
	names := make(map[uuid.UUID]string, len(idSet))
	if len(idSet) == 0 {
		return names, nil
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var items []model.MenuItem
	if err := db.Select("id", "name").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, m := range items {
		names[m.ID] = m.Name
	}
	return names, nil
}

func toOrderDto(o model.Order, names map[uuid.UUID]string) model.OrderDto {
	items := make([]model.OrderItemDto, 0, len(o.Items))
	for _, item := range o.Items {
		var name *string
		if n, ok := names[item.MenuItemId]; ok {
			name = &n
		}
		items = append(items, model.OrderItemDto{
			ID:           item.ID,
			MenuItemId:   item.MenuItemId,
			MenuItemName: name,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		})
	}
	return model.OrderDto{
		ID:              o.ID,
		UserId:          o.UserId,
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		Notes:           o.Notes,
		AppliedCouponId: o.AppliedCouponId,
		CreatedAtUtc:    o.CreatedAt,
		UpdatedAtUtc:    o.UpdatedAt,
		Items:           items,
	}
}
