package handler

import (
	"campus_eats/constants"
	"campus_eats/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func unauthorized(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no actor"))
}

func inputId(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals("inputId").(uuid.UUID)
	return id
}
