package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const EventCheckoutCompleted = "checkout.session.completed"

// Metadata keys attached to a checkout session and read back on confirmation.
const (
	MetaPaymentID    = "payment_id"
	MetaUserID       = "user_id"
	MetaOrderItems   = "order_items"
	MetaOrderNotes   = "order_notes"
	MetaUserCouponID = "user_coupon_id"
)

// CheckoutGateway opens a hosted checkout session for a priced basket.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutSession, error)
}

// CreatePaymentSession prices the basket the same way PlaceOrder does, opens a
// checkout session for the final amount and records a pending payment.
func CreatePaymentSession(ctx context.Context, db *gorm.DB, gateway CheckoutGateway, actor model.ActingUser, input model.CreatePaymentSessionInput, currency string) (*model.CheckoutSession, error) {
	db = db.WithContext(ctx)
	basket, err := buildOrder(db, actor.ID, input.Items, input.Notes)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var applied *model.UserCoupon
	if input.UserCouponId != nil {
		discount, applied, err = quoteCoupon(db, *input.UserCouponId, actor.ID, basket.Subtotal, basket.Items, true)
		if err != nil {
			return nil, err
		}
	}
	total := totalAfter(basket.Subtotal, discount)

	items, err := json.Marshal(input.Items)
	if err != nil {
		return nil, err
	}
	paymentID := uuid.New()
	metadata := map[string]string{
		MetaPaymentID:  paymentID.String(),
		MetaUserID:     actor.ID.String(),
		MetaOrderItems: string(items),
		MetaOrderNotes: "",
	}
	if input.Notes != nil {
		metadata[MetaOrderNotes] = *input.Notes
	}
	description := "CampusEats order"
	if applied != nil {
		metadata[MetaUserCouponID] = applied.ID.String()
		description = fmt.Sprintf("CampusEats order (coupon: %s)", applied.Coupon.Name)
	}

	session, err := gateway.CreateSession(ctx, model.CheckoutRequest{
		Description: description,
		Amount:      total,
		Currency:    currency,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}

	payment := model.Payment{
		UserId:          actor.ID,
		Amount:          total,
		Currency:        currency,
		Status:          constants.PAYMENT_PENDING,
		StripeSessionId: &session.SessionId,
	}
	payment.ID = paymentID
	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}
	slog.Info("checkout session created", "payment_id", payment.ID, "user_id", actor.ID, "amount", total.StringFixed(2))
	return session, nil
}

// ConfirmedPayment is the outcome of a processed checkout notification.
type ConfirmedPayment struct {
	Payment model.Payment
	Order   *model.Order
	Task    *model.KitchenTask
	Points  int
}

type checkoutSessionPayload struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

type confirmation struct {
	paymentID    uuid.UUID
	userID       uuid.UUID
	items        []model.OrderItemInput
	notes        *string
	userCouponID *uuid.UUID
}

func parseConfirmation(payload []byte) (*confirmation, error) {
	var session checkoutSessionPayload
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	meta := session.Metadata
	for _, key := range []string{MetaPaymentID, MetaUserID, MetaOrderItems} {
		if meta[key] == "" {
			return nil, fmt.Errorf("%w: missing metadata %s", ErrInvalidPayload, key)
		}
	}

	c := &confirmation{}
	var err error
	if c.paymentID, err = uuid.Parse(meta[MetaPaymentID]); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, MetaPaymentID, err)
	}
	if c.userID, err = uuid.Parse(meta[MetaUserID]); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, MetaUserID, err)
	}
	if err := json.Unmarshal([]byte(meta[MetaOrderItems]), &c.items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, MetaOrderItems, err)
	}
	if notes := meta[MetaOrderNotes]; notes != "" {
		c.notes = &notes
	}
	if raw := meta[MetaUserCouponID]; raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, MetaUserCouponID, err)
		}
		c.userCouponID = &id
	}
	return c, nil
}

// ConfirmPayment turns a completed checkout into an order. Events other than a
// completed checkout, unknown payments and payments that were already claimed
// return (nil, nil). Malformed metadata is an error.
func ConfirmPayment(ctx context.Context, db *gorm.DB, eventType string, payload []byte) (*ConfirmedPayment, error) {
	if eventType != EventCheckoutCompleted {
		return nil, nil
	}
	c, err := parseConfirmation(payload)
	if err != nil {
		return nil, err
	}

	var confirmed *ConfirmedPayment
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment model.Payment
		if err := tx.First(&payment, "id = ?", c.paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Warn("checkout completed for unknown payment", "payment_id", c.paymentID)
				return nil
			}
			return err
		}
		if payment.UserId != c.userID {
			return fmt.Errorf("%w: payment %s does not belong to user %s", ErrInvalidPayload, payment.ID, c.userID)
		}

		// A redelivered notification finds the payment already claimed.
		now := time.Now().UTC()
		res := tx.Model(&model.Payment{}).
			Where("id = ? AND status IN ?", payment.ID, []string{constants.PAYMENT_PENDING, constants.PAYMENT_EXPIRED}).
			Updates(map[string]any{
				"status":           constants.PAYMENT_SUCCEDED,
				"completed_at_utc": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			slog.Info("payment already confirmed", "payment_id", payment.ID)
			return nil
		}

		order, err := buildOrder(tx, c.userID, c.items, c.notes)
		if err != nil {
			return err
		}
		order.Status = constants.ORDER_CONFIRMED
		if c.userCouponID != nil {
			if err := applyCoupon(tx, *c.userCouponID, c.userID, order, false); err != nil {
				return err
			}
		}
		// The order never records more than was charged, e.g. when the coupon
		// priced into the session was spent elsewhere before this notification.
		if order.Total.GreaterThan(payment.Amount) {
			slog.Warn("order total capped to charged amount",
				"payment_id", payment.ID, "charged", payment.Amount.StringFixed(2), "total", order.Total.StringFixed(2))
			order.DiscountAmount = order.Subtotal.Sub(payment.Amount)
			order.Total = payment.Amount
		}
		task, err := createOrderWithKitchenTask(tx, order)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Payment{}).Where("id = ?", payment.ID).Update("order_id", order.ID).Error; err != nil {
			return err
		}

		points, err := AwardPointsForOrder(ctx, tx, c.userID, order.ID, order.Total)
		if err != nil {
			return err
		}
		if err := tx.Model(order).Update("loyalty_points_awarded", true).Error; err != nil {
			return err
		}
		order.LoyaltyPointsAwarded = true

		if order.Total.LessThan(payment.Amount) {
			slog.Warn("order total below charged amount",
				"payment_id", payment.ID, "charged", payment.Amount.StringFixed(2), "total", order.Total.StringFixed(2))
		}

		payment.Status = constants.PAYMENT_SUCCEDED
		payment.CompletedAtUtc = &now
		payment.OrderId = &order.ID
		confirmed = &ConfirmedPayment{Payment: payment, Order: order, Task: task, Points: points}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if confirmed != nil {
		slog.Info("payment confirmed", "payment_id", confirmed.Payment.ID, "order_id", confirmed.Order.ID, "points", confirmed.Points)
	}
	return confirmed, nil
}

// ExpireStalePayments marks pending payments older than maxAge as expired.
func ExpireStalePayments(ctx context.Context, db *gorm.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res := db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ? AND created_at < ?", constants.PAYMENT_PENDING, cutoff).
		Update("status", constants.PAYMENT_EXPIRED)
	return res.RowsAffected, res.Error
}
