package handler

import (
	"campus_eats/constants"
	"campus_eats/database"
	"campus_eats/helper"
	"campus_eats/model"
	"campus_eats/service"
	"campus_eats/utils"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

func setTokenCookies(c *fiber.Ctx, tokens model.TokenData) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    tokens.AccessToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(helper.AccessTokenTTL),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    tokens.RefreshToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(helper.RefreshTokenTTL),
	})
}

func issueTokens(c *fiber.Ctx, user *model.User) error {
	tokens, err := helper.GenerateTokens(model.TokenClaim{
		UserId: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	setTokenCookies(c, tokens)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         service.ToUserDto(*user),
	})
}

// Register creates a student account. A signed-in manager may grant another role.
func Register(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.RegisterUserInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var actor *model.ActingUser
	if a, ok := helper.ActingUserFromCtx(c); ok {
		actor = &a
	}

	user, err := service.RegisterUser(c.UserContext(), database.DB, actor, input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, service.ToUserDto(*user))
}

func Login(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.LoginInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, nil)
	}

	user, err := service.Authenticate(c.UserContext(), database.DB, input.Email, input.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return issueTokens(c, user)
}

func RefreshToken(c *fiber.Ctx) error {
	type refreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	raw := c.Cookies("refresh_token")
	if raw == "" {
		var req refreshRequest
		_ = c.BodyParser(&req)
		raw = req.RefreshToken
	}
	if raw == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no refresh token"))
	}

	token, err := helper.ParseToken(raw)
	if err != nil || !token.Valid {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}
	claim, err := helper.ClaimFromToken(token, helper.TokenRefresh)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}

	// Reload the user so role changes take effect on refresh.
	user, err := service.GetUser(c.UserContext(), database.DB, claim.UserId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}
	return issueTokens(c, user)
}

func Logout(c *fiber.Ctx) error {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Path:     "/",
			Expires:  time.Unix(0, 0),
		})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "logged out"})
}

func Me(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := service.GetUser(c.UserContext(), database.DB, actor.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, service.ToUserDto(*user))
}

func UpdateMe(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.UpdateProfileInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	user, err := service.UpdateProfile(c.UserContext(), database.DB, actor.ID, input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, service.ToUserDto(*user))
}
