package handler

import (
	"campus_eats/constants"
	"campus_eats/database"
	"campus_eats/helper"
	"campus_eats/model"
	"campus_eats/service"
	"campus_eats/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func GetMenu(c *fiber.Ctx) error {
	filter, _ := c.Locals("filter").(model.FilterMenu)

	items, err := service.GetMenu(c.UserContext(), database.DB, filter)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, items)
}

func GetMenuItem(c *fiber.Ctx) error {
	item, err := service.GetMenuItem(c.UserContext(), database.DB, inputId(c))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, item)
}

func CreateMenuItem(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.CreateMenuItemInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	item, err := service.CreateMenuItem(c.UserContext(), database.DB, actor, input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, item)
}

func UpdateMenuItem(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.UpdateMenuItemInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	item, err := service.UpdateMenuItem(c.UserContext(), database.DB, actor, inputId(c), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, item)
}

func DeleteMenuItem(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	if err := service.DeleteMenuItem(c.UserContext(), database.DB, actor, inputId(c)); err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": inputId(c)})
}

// UploadMenuImage stores the multipart "image" file and saves its URL on the item.
func UploadMenuImage(c *fiber.Ctx) error {
	if deps.Images == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.IMAGE_UPLOAD_FAILED, errors.New("image storage not configured"))
	}

	item, err := service.GetMenuItem(c.UserContext(), database.DB, inputId(c))
	if err != nil {
		return serviceError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.IMAGE_REQUIRED, err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.IMAGE_REQUIRED, err)
	}
	defer file.Close()

	url, err := deps.Images.UploadMenuImage(c.UserContext(), file, item.Slug)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadGateway, constants.IMAGE_UPLOAD_FAILED, err)
	}

	updated, err := service.SetMenuItemImage(c.UserContext(), database.DB, item.ID, url)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, updated)
}
