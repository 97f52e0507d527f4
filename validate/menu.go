package validate

import (
	"campus_eats/constants"
	"campus_eats/model"
	"campus_eats/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func CreateMenuItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateMenuItemInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if !input.Price.IsPositive() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, errors.New("price must be greater than zero"), "price")
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func UpdateMenuItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateMenuItemInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if input.Price != nil && !input.Price.IsPositive() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, errors.New("price must be greater than zero"), "price")
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func FilterMenu() fiber.Handler {
	return query[model.FilterMenu]()
}
