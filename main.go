package main

import (
	"campus_eats/config"
	"campus_eats/database"
	"campus_eats/handler"
	"campus_eats/helper"
	"campus_eats/logger"
	"campus_eats/router"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, Stripe-Signature",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	database.ConnectDB(cfg)

	if err := helper.StartCouponExpiryScheduler(database.DB); err != nil {
		slog.Error("coupon expiry scheduler not started", "error", err)
	}
	if err := helper.StartPaymentSweepScheduler(database.DB); err != nil {
		slog.Error("payment sweep scheduler not started", "error", err)
	}
	defer helper.StopSchedulers()

	deps := handler.Deps{
		VerifyWebhook: helper.VerifyStripeWebhook,
		WebhookSecret: cfg.StripeWebhookSecret,
		Currency:      cfg.StripeCurrency,
		AppURL:        cfg.AppURL,
	}
	if cfg.StripeSecretKey != "" {
		deps.Checkout = helper.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeSuccessURL, cfg.StripeCancelURL)
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set, checkout disabled")
	}

	cld, err := helper.InitCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		slog.Warn("menu image upload disabled", "error", err)
	} else {
		deps.Images = &helper.CloudinaryImages{Cld: cld}
	}

	feed := helper.NewKitchenFeed(cfg.RedisAddr)
	defer feed.Close()
	if err := feed.Ping(ctx); err != nil {
		slog.Warn("redis unavailable, kitchen board will not receive live updates", "addr", cfg.RedisAddr, "error", err)
	} else {
		deps.Kitchen = feed
		handler.StartKitchenBroadcast(ctx, feed)
	}
	handler.Configure(deps)

	router.SetupRoutes(app)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
	}
}
