package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KitchenUpdate is the task after a change plus the order status it left behind.
type KitchenUpdate struct {
	Task        model.KitchenTask
	OrderStatus string
}

// ParseKitchenStatus matches a status name case-insensitively.
func ParseKitchenStatus(s string) (string, error) {
	for _, status := range constants.KITCHEN_STATUSES {
		if strings.EqualFold(strings.TrimSpace(s), status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// OrderStatusForKitchen maps a kitchen status onto the customer-visible order
// status. ok is false when the order is left as it is.
func OrderStatusForKitchen(kitchenStatus string) (status string, ok bool) {
	switch kitchenStatus {
	case constants.KITCHEN_PREPARING:
		return constants.ORDER_PREPARING, true
	case constants.KITCHEN_READY, constants.KITCHEN_COMPLETED:
		return constants.ORDER_COMPLETED, true
	}
	return "", false
}

// UpdateKitchenTask applies status, assignee and notes independently and
// carries a status change over to the linked order. Orders only move forward:
// a cancelled or completed order keeps its status.
func UpdateKitchenTask(ctx context.Context, db *gorm.DB, actor model.ActingUser, taskID uuid.UUID, input model.UpdateKitchenTaskInput) (*KitchenUpdate, error) {
	if !actor.Is(constants.ROLE_WORKER) && !actor.Is(constants.ROLE_MANAGER) {
		return nil, ErrForbidden
	}

	var newStatus string
	if input.Status != nil {
		parsed, err := ParseKitchenStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		newStatus = parsed
	}

	var update KitchenUpdate
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.KitchenTask
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if newStatus != "" {
			task.Status = newStatus
		}
		if input.AssignedTo != nil {
			task.AssignedTo = input.AssignedTo
		}
		if input.Notes != nil {
			task.Notes = input.Notes
		}
		if err := tx.Save(&task).Error; err != nil {
			return err
		}

		var order model.Order
		if err := tx.First(&order, "id = ?", task.OrderId).Error; err != nil {
			return err
		}
		if target, ok := OrderStatusForKitchen(newStatus); ok && !isTerminal(order.Status) && order.Status != target {
			if err := tx.Model(&order).Update("status", target).Error; err != nil {
				return err
			}
			order.Status = target
			slog.Info("order status synced from kitchen", "order_id", order.ID, "status", target)
		}

		update = KitchenUpdate{Task: task, OrderStatus: order.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &update, nil
}

// ListKitchenTasks returns tasks oldest first, optionally filtered by status.
func ListKitchenTasks(ctx context.Context, db *gorm.DB, status string) ([]model.KitchenTask, error) {
	query := db.WithContext(ctx).Order("created_at asc")
	if status != "" {
		parsed, err := ParseKitchenStatus(status)
		if err != nil {
			return nil, err
		}
		query = query.Where("status = ?", parsed)
	}
	tasks := []model.KitchenTask{}
	err := query.Find(&tasks).Error
	return tasks, err
}
