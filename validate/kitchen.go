package validate

import (
	"campus_eats/constants"
	"campus_eats/model"
	"campus_eats/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func UpdateKitchenTask() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateKitchenTaskInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if input.Status == nil && input.AssignedTo == nil && input.Notes == nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, errors.New("nothing to update"))
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func FilterKitchenTask() fiber.Handler {
	return query[model.FilterKitchenTask]()
}
