package router

import (
	"campus_eats/constants"
	"campus_eats/handler"
	"campus_eats/middleware"
	"campus_eats/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	manager := middleware.RequireRole(constants.ROLE_MANAGER)
	kitchenStaff := middleware.RequireRole(constants.ROLE_WORKER, constants.ROLE_MANAGER)

	auth := v1.Group("/auth")
	auth.Post("/register", middleware.OptionalAuth(), validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", middleware.Protected(), handler.Me)
	auth.Put("/me", middleware.Protected(), validate.UpdateProfile(), handler.UpdateMe)

	menu := v1.Group("/menu")
	menu.Get("/", validate.FilterMenu(), handler.GetMenu)
	menu.Get("/:id", validate.GetById("id"), handler.GetMenuItem)
	menu.Post("/", middleware.Protected(), manager, validate.CreateMenuItem(), handler.CreateMenuItem)
	menu.Put("/:id", middleware.Protected(), manager, validate.GetById("id"), validate.UpdateMenuItem(), handler.UpdateMenuItem)
	menu.Delete("/:id", middleware.Protected(), manager, validate.GetById("id"), handler.DeleteMenuItem)
	menu.Post("/:id/image", middleware.Protected(), manager, validate.GetById("id"), handler.UploadMenuImage)

	orders := v1.Group("/orders", middleware.Protected())
	orders.Post("/", validate.PlaceOrder(), handler.PlaceOrder)
	orders.Get("/", validate.FilterOrder(), handler.GetOrders)
	orders.Get("/:id", validate.GetById("id"), handler.GetOrder)
	orders.Post("/:id/cancel", validate.GetById("id"), handler.CancelOrder)

	loyalty := v1.Group("/loyalty", middleware.Protected())
	loyalty.Get("/account", handler.GetLoyaltyAccount)
	loyalty.Get("/transactions", handler.GetLoyaltyTransactions)
	loyalty.Post("/redeem", validate.RedeemPoints(), handler.RedeemPoints)

	coupons := v1.Group("/coupons", middleware.Protected())
	coupons.Get("/", manager, handler.ListCoupons)
	coupons.Get("/available", handler.GetAvailableCoupons)
	coupons.Get("/my-coupons", handler.GetMyCoupons)
	coupons.Post("/", validate.CreateCoupon(), handler.CreateCoupon)
	coupons.Post("/purchase", validate.PurchaseCoupon(), handler.PurchaseCoupon)
	coupons.Delete("/:id", validate.GetById("id"), handler.DeleteCoupon)

	payments := v1.Group("/payments")
	payments.Post("/create-session", middleware.Protected(), validate.CreatePaymentSession(), handler.CreatePaymentSession)
	payments.Post("/webhook", handler.PaymentWebhook)

	kitchen := v1.Group("/kitchen", middleware.Protected(), kitchenStaff)
	kitchen.Get("/tasks", validate.FilterKitchenTask(), handler.GetKitchenTasks)
	kitchen.Patch("/tasks/:id", validate.GetById("id"), validate.UpdateKitchenTask(), handler.UpdateKitchenTask)
	kitchen.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	kitchen.Get("/ws", websocket.New(handler.KitchenWebsocket))
}
