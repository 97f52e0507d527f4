package handler

import (
	"campus_eats/constants"
	"campus_eats/model"
	"campus_eats/service"
	"campus_eats/utils"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		return fiber.StatusBadRequest, constants.ORDER_EMPTY
	case errors.Is(err, service.ErrInvalidQuantity):
		return fiber.StatusBadRequest, constants.ORDER_INVALID_QUANTITY
	case errors.Is(err, service.ErrMinimumOrderNotMet):
		return fiber.StatusBadRequest, constants.ORDER_MINIMUM_NOT_MET
	case errors.Is(err, service.ErrInsufficientPoints):
		return fiber.StatusBadRequest, constants.LOYALTY_INSUFFICIENT
	case errors.Is(err, service.ErrAccountNotFound):
		return fiber.StatusBadRequest, constants.LOYALTY_ACCOUNT_NOT_FOUND
	case errors.Is(err, service.ErrCouponInactive):
		return fiber.StatusBadRequest, constants.COUPON_INACTIVE
	case errors.Is(err, service.ErrCouponExpired):
		return fiber.StatusBadRequest, constants.COUPON_EXPIRED
	case errors.Is(err, service.ErrInvalidStatus):
		return fiber.StatusBadRequest, constants.KITCHEN_INVALID_STATUS
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.StatusBadRequest, constants.ERROR_INPUT
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden, constants.FORBIDDEN
	case errors.Is(err, service.ErrMenuItemNotFound):
		return fiber.StatusNotFound, constants.MENU_ITEM_NOT_FOUND
	case errors.Is(err, service.ErrOrderNotFound):
		return fiber.StatusNotFound, constants.ORDER_NOT_FOUND
	case errors.Is(err, service.ErrCouponNotFound):
		return fiber.StatusNotFound, constants.COUPON_NOT_FOUND
	case errors.Is(err, service.ErrTaskNotFound):
		return fiber.StatusNotFound, constants.KITCHEN_TASK_NOT_FOUND
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrPaymentNotFound):
		return fiber.StatusNotFound, constants.NOT_FOUND_RECORDS
	case errors.Is(err, service.ErrAlreadyTerminal):
		return fiber.StatusConflict, constants.ORDER_ALREADY_TERMINAL
	case errors.Is(err, service.ErrEmailTaken):
		return fiber.StatusConflict, constants.EMAIL_EXISTS
	case errors.Is(err, service.ErrInvalidPayload):
		return fiber.StatusInternalServerError, constants.PAYMENT_PROCESSING
	default:
		return fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR
	}
}

func serviceError(c *fiber.Ctx, err error) error {
	status, message := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return utils.ErrorResponse(c, status, message, err)
}

// basketError treats unknown menu items in a basket as bad input rather than a
// missing resource.
func basketError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrMenuItemNotFound) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ORDER_MENU_NOT_FOUND, err)
	}
	return serviceError(c, err)
}

func logPublishError(event model.KitchenEvent, err error) {
	slog.Warn("kitchen event not published", "type", event.Type, "task_id", event.Task.ID, "error", err)
}
