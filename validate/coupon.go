package validate

import (
	"campus_eats/model"

	"github.com/gofiber/fiber/v2"
)

func CreateCoupon() fiber.Handler {
	return body[model.CreateCouponInput]()
}

func PurchaseCoupon() fiber.Handler {
	return body[model.PurchaseCouponInput]()
}

func RedeemPoints() fiber.Handler {
	return body[model.RedeemPointsInput]()
}
