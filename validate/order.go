package validate

import (
	"campus_eats/model"

	"github.com/gofiber/fiber/v2"
)

func PlaceOrder() fiber.Handler {
	return body[model.PlaceOrderInput]()
}

func FilterOrder() fiber.Handler {
	return query[model.FilterOrder]()
}

func CreatePaymentSession() fiber.Handler {
	return body[model.CreatePaymentSessionInput]()
}
