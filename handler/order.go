package handler

import (
	"campus_eats/constants"
	"campus_eats/database"
	"campus_eats/helper"
	"campus_eats/model"
	"campus_eats/service"
	"campus_eats/utils"
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const qrSize = 256

func pickupCode(dto model.OrderDto) string {
	return "campuseats:order:" + dto.ID.String()
}

// notifyOrderPlaced pushes the new kitchen task and mails the customer.
func notifyOrderPlaced(ctx context.Context, actor model.ActingUser, order *model.Order, task *model.KitchenTask, points int) {
	if task != nil {
		publishKitchen(ctx, model.KitchenEvent{Type: "task.created", Task: *task, OrderStatus: order.Status})
	}

	dto, err := service.GetOrder(ctx, database.DB, actor, order.ID)
	if err != nil {
		slog.Warn("order confirmation skipped", "order_id", order.ID, "error", err)
		return
	}
	user, err := service.GetUser(ctx, database.DB, order.UserId)
	if err != nil {
		slog.Warn("order confirmation skipped", "order_id", order.ID, "error", err)
		return
	}
	utils.SendOrderConfirmationEmail(user.Email, confirmationData(*dto, user.Name, points))
}

func confirmationData(dto model.OrderDto, customer string, points int) utils.OrderConfirmationData {
	lines := make([]utils.OrderConfirmationLine, 0, len(dto.Items))
	for _, item := range dto.Items {
		name := item.MenuItemId.String()
		if item.MenuItemName != nil {
			name = *item.MenuItemName
		}
		lines = append(lines, utils.OrderConfirmationLine{
			Name:      name,
			Quantity:  item.Quantity,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
		})
	}
	return utils.OrderConfirmationData{
		OrderCode:    dto.ID.String()[:8],
		CustomerName: customer,
		Lines:        lines,
		Subtotal:     dto.Subtotal.StringFixed(2),
		Discount:     dto.DiscountAmount.StringFixed(2),
		Total:        dto.Total.StringFixed(2),
		Points:       points,
		DetailLink:   deps.AppURL + "/orders/" + dto.ID.String(),
	}
}

func PlaceOrder(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.PlaceOrderInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	placed, err := service.PlaceOrder(c.UserContext(), database.DB, actor, input)
	if err != nil {
		return basketError(c, err)
	}

	notifyOrderPlaced(c.UserContext(), actor, placed.Order, placed.Task, 0)

	dto, err := service.GetOrder(c.UserContext(), database.DB, actor, placed.Order.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, dto)
}

func GetOrders(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	filter, _ := c.Locals("filter").(model.FilterOrder)

	orders, err := service.GetOrders(c.UserContext(), database.DB, actor, filter.All)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, orders)
}

// GetOrder returns one order with a pickup QR code.
func GetOrder(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	dto, err := service.GetOrder(c.UserContext(), database.DB, actor, inputId(c))
	if err != nil {
		return serviceError(c, err)
	}

	qr, err := utils.QRCodeDataURL(pickupCode(*dto), qrSize)
	if err != nil {
		slog.Warn("pickup qr not generated", "order_id", dto.ID, "error", err)
	} else {
		dto.QrCode = qr
	}
	return utils.SuccessResponse(c, fiber.StatusOK, dto)
}

func CancelOrder(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	order, err := service.CancelOrder(c.UserContext(), database.DB, actor, inputId(c))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": constants.ORDER_CANCELLED_SUCCESS,
		"id":      order.ID,
		"status":  order.Status,
	})
}
