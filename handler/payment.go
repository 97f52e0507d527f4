package handler

import (
	"campus_eats/constants"
	"campus_eats/database"
	"campus_eats/helper"
	"campus_eats/model"
	"campus_eats/service"
	"campus_eats/utils"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func CreatePaymentSession(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.CreatePaymentSessionInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	if deps.Checkout == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.PAYMENT_GATEWAY_ERROR, errors.New("checkout not configured"))
	}

	session, err := service.CreatePaymentSession(c.UserContext(), database.DB, deps.Checkout, actor, input, deps.Currency)
	if err != nil {
		status, _ := errorStatus(err)
		if status == fiber.StatusInternalServerError {
			slog.Error("checkout session failed", "user_id", actor.ID, "error", err)
			return utils.ErrorResponse(c, fiber.StatusBadGateway, constants.PAYMENT_GATEWAY_ERROR, err)
		}
		return basketError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, session)
}

// PaymentWebhook receives provider notifications. Only completed checkouts
// create orders; everything else is acknowledged and ignored.
func PaymentWebhook(c *fiber.Ctx) error {
	if deps.VerifyWebhook == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.PAYMENT_INVALID_WEBHOOK, errors.New("webhook not configured"))
	}

	payload := append([]byte(nil), c.Body()...)
	eventType, raw, err := deps.VerifyWebhook(payload, c.Get("Stripe-Signature"), deps.WebhookSecret)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.PAYMENT_INVALID_WEBHOOK, err)
	}

	confirmed, err := service.ConfirmPayment(c.UserContext(), database.DB, eventType, raw)
	if err != nil {
		// The provider retries any 5xx, so every failure here is reported as one.
		slog.Error("payment confirmation failed", "event", eventType, "error", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.PAYMENT_PROCESSING, err)
	}

	if confirmed != nil {
		owner := model.ActingUser{ID: confirmed.Order.UserId, Role: constants.ROLE_STUDENT}
		notifyOrderPlaced(c.UserContext(), owner, confirmed.Order, confirmed.Task, confirmed.Points)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
