package middleware

import (
	"campus_eats/constants"
	"campus_eats/helper"
	"campus_eats/model"
	"campus_eats/utils"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func tokenFromRequest(c *fiber.Ctx) string {
	token := c.Cookies("access_token")
	if token == "" {
		// Authorization: Bearer xxx
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return token
}

func actorFromToken(token string) (model.TokenClaim, error) {
	jwtToken, err := helper.ParseToken(token)
	if err != nil {
		return model.TokenClaim{}, err
	}
	if !jwtToken.Valid {
		return model.TokenClaim{}, errors.New("token not valid")
	}
	return helper.ClaimFromToken(jwtToken, helper.TokenAccess)
}

func storeClaim(c *fiber.Ctx, claim model.TokenClaim) {
	c.Locals("user", claim)
	c.Locals("actor", model.ActingUser{ID: claim.UserId, Role: claim.Role})
}

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no token"))
		}

		claim, err := actorFromToken(token)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
		}

		storeClaim(c, claim)
		return c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is present and lets anonymous
// requests through otherwise.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return c.Next()
		}
		if claim, err := actorFromToken(token); err == nil {
			storeClaim(c, claim)
		}
		return c.Next()
	}
}

// RequireRole must run after Protected.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := helper.ActingUserFromCtx(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no actor"))
		}
		if !utils.IsValidValueOfConstant(actor.Role, roles) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, errors.New("role "+actor.Role+" not allowed"))
		}
		return c.Next()
	}
}
