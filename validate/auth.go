package validate

import (
	"campus_eats/model"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return body[model.RegisterUserInput]()
}

func Login() fiber.Handler {
	return body[model.LoginInput]()
}

func UpdateProfile() fiber.Handler {
	return body[model.UpdateProfileInput]()
}
