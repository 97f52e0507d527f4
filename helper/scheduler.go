package helper

import (
	"campus_eats/service"
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const stalePaymentAge = 24 * time.Hour

var (
	couponScheduler  gocron.Scheduler
	paymentScheduler *cron.Cron
)

func expireCoupons(db *gorm.DB) {
	n, err := service.DeactivateExpiredCoupons(context.Background(), db)
	if err != nil {
		slog.Error("coupon expiry job failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("expired coupons deactivated", "count", n)
	}
}

// StartCouponExpiryScheduler deactivates expired coupons every day at 00:05 UTC.
func StartCouponExpiryScheduler(db *gorm.DB) error {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(expireCoupons, db),
	)
	if err != nil {
		return err
	}

	couponScheduler = s
	s.Start()
	slog.Info("coupon expiry scheduler started", "at", "00:05 UTC")
	return nil
}

func expirePayments(db *gorm.DB) {
	n, err := service.ExpireStalePayments(context.Background(), db, stalePaymentAge)
	if err != nil {
		slog.Error("payment sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("stale payments expired", "count", n)
	}
}

// StartPaymentSweepScheduler expires abandoned checkouts every 15 minutes.
func StartPaymentSweepScheduler(db *gorm.DB) error {
	paymentScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := paymentScheduler.AddFunc("*/15 * * * *", func() { expirePayments(db) })
	if err != nil {
		return err
	}

	paymentScheduler.Start()
	slog.Info("payment sweep scheduler started", "every", "15m")
	return nil
}

func StopSchedulers() {
	if couponScheduler != nil {
		if err := couponScheduler.Shutdown(); err != nil {
			slog.Error("coupon scheduler shutdown", "error", err)
		}
	}
	if paymentScheduler != nil {
		<-paymentScheduler.Stop().Done()
	}
}
