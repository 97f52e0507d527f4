package handler

import (
	"campus_eats/constants"
	"campus_eats/database"
	"campus_eats/helper"
	"campus_eats/model"
	"campus_eats/service"
	"campus_eats/utils"

	"github.com/gofiber/fiber/v2"
)

func GetLoyaltyAccount(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	account, err := service.GetOrCreateAccount(c.UserContext(), database.DB, actor.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, account)
}

func GetLoyaltyTransactions(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	pagination := new(model.Pagination)
	if err := c.QueryParser(pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	response, err := service.ListTransactions(c.UserContext(), database.DB, actor.ID, *pagination)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func RedeemPoints(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.RedeemPointsInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	remaining, err := service.RedeemPoints(c.UserContext(), database.DB, actor.ID, input.Points, input.Description)
	if err != nil {
		status, message := errorStatus(err)
		return c.Status(status).JSON(model.RedeemPointsResult{Success: false, Message: message})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.RedeemPointsResult{
		Success:         true,
		Message:         constants.LOYALTY_REDEEMED_SUCCESS,
		RemainingPoints: &remaining,
	})
}
