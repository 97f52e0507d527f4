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

func GetKitchenTasks(c *fiber.Ctx) error {
	filter, _ := c.Locals("filter").(model.FilterKitchenTask)

	tasks, err := service.ListKitchenTasks(c.UserContext(), database.DB, filter.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tasks)
}

func UpdateKitchenTask(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.UpdateKitchenTaskInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	update, err := service.UpdateKitchenTask(c.UserContext(), database.DB, actor, inputId(c), input)
	if err != nil {
		return serviceError(c, err)
	}

	publishKitchen(c.UserContext(), model.KitchenEvent{
		Type:        "task.updated",
		Task:        update.Task,
		OrderStatus: update.OrderStatus,
	})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"task":        update.Task,
		"orderStatus": update.OrderStatus,
	})
}
