package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeGateway struct {
	requests []model.CheckoutRequest
	err      error
}

func (f *fakeGateway) CreateSession(_ context.Context, req model.CheckoutRequest) (*model.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &model.CheckoutSession{SessionId: "cs_test_" + uuid.NewString(), Url: "https://checkout.test/session"}, nil
}

// completedPayload mimics the checkout session object the provider delivers.
func completedPayload(t *testing.T, metadata map[string]string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{"id": "cs_test", "object": "checkout.session", "metadata": metadata})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return body
}

type checkoutFixture struct {
	db      *gorm.DB
	student model.ActingUser
	pizza   model.MenuItem
	cola    model.MenuItem
	gateway *fakeGateway
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	db := newTestDB(t)
	return &checkoutFixture{
		db:      db,
		student: newStudent(t, db),
		pizza:   newMenuItem(t, db, "Pizza", "20"),
		cola:    newMenuItem(t, db, "Cola", "5"),
		gateway: &fakeGateway{},
	}
}

func (f *checkoutFixture) basket() []model.OrderItemInput {
	return []model.OrderItemInput{
		{MenuItemId: f.pizza.ID, Quantity: 2},
		{MenuItemId: f.cola.ID, Quantity: 1},
	}
}

func (f *checkoutFixture) createSession(t *testing.T, couponID *uuid.UUID) map[string]string {
	t.Helper()
	_, err := CreatePaymentSession(ctx, f.db, f.gateway, f.student, model.CreatePaymentSessionInput{
		Items:        f.basket(),
		Notes:        strPtr("pickup at noon"),
		UserCouponId: couponID,
	}, "ron")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return f.gateway.requests[len(f.gateway.requests)-1].Metadata
}

func TestCreatePaymentSession(t *testing.T) {
	f := newCheckoutFixture(t)
	metadata := f.createSession(t, nil)

	req := f.gateway.requests[0]
	if !req.Amount.Equal(dec("45")) || req.Currency != "ron" {
		t.Errorf("request amount %s currency %s", req.Amount, req.Currency)
	}
	for _, key := range []string{MetaPaymentID, MetaUserID, MetaOrderItems, MetaOrderNotes} {
		if metadata[key] == "" {
			t.Errorf("metadata %s missing", key)
		}
	}
	if _, ok := metadata[MetaUserCouponID]; ok {
		t.Errorf("coupon id set without a coupon")
	}

	var payment model.Payment
	if err := f.db.First(&payment, "id = ?", metadata[MetaPaymentID]).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if payment.Status != constants.PAYMENT_PENDING || payment.OrderId != nil || payment.StripeSessionId == nil {
		t.Errorf("payment = %+v", payment)
	}
	if !payment.Amount.Equal(dec("45")) {
		t.Errorf("payment amount = %s", payment.Amount)
	}

	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("session creation wrote %d orders", orders)
	}
}

func TestCreatePaymentSessionFailures(t *testing.T) {
	f := newCheckoutFixture(t)

	f.gateway.err = errors.New("provider down")
	_, err := CreatePaymentSession(ctx, f.db, f.gateway, f.student, model.CreatePaymentSessionInput{Items: f.basket()}, "ron")
	if err == nil {
		t.Fatal("expected gateway error")
	}
	var payments int64
	f.db.Model(&model.Payment{}).Count(&payments)
	if payments != 0 {
		t.Errorf("failed session left %d payments", payments)
	}

	f.gateway.err = nil
	_, err = CreatePaymentSession(ctx, f.db, f.gateway, f.student, model.CreatePaymentSessionInput{}, "ron")
	if !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("err = %v, want ErrEmptyOrder", err)
	}
}

func TestConfirmPayment(t *testing.T) {
	f := newCheckoutFixture(t)
	metadata := f.createSession(t, nil)

	confirmed, err := ConfirmPayment(ctx, f.db, EventCheckoutCompleted, completedPayload(t, metadata))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed == nil {
		t.Fatal("expected a confirmed payment")
	}

	order := confirmed.Order
	if order.Status != constants.ORDER_CONFIRMED || !order.Total.Equal(dec("45")) || !order.LoyaltyPointsAwarded {
		t.Errorf("order = %+v", order)
	}
	if order.Notes == nil || *order.Notes != "pickup at noon" {
		t.Errorf("notes = %v", order.Notes)
	}
	if confirmed.Task == nil || confirmed.Task.Status != constants.KITCHEN_NOT_STARTED {
		t.Errorf("task = %+v", confirmed.Task)
	}
	if confirmed.Points != 4 || pointsOf(t, f.db, f.student.ID) != 4 {
		t.Errorf("points = %d", confirmed.Points)
	}

	var payment model.Payment
	f.db.First(&payment, "id = ?", metadata[MetaPaymentID])
	if payment.Status != constants.PAYMENT_SUCCEDED || payment.CompletedAtUtc == nil || payment.OrderId == nil || *payment.OrderId != order.ID {
		t.Errorf("payment = %+v", payment)
	}
	assertLedgerBalanced(t, f.db, f.student.ID)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	f := newCheckoutFixture(t)
	metadata := f.createSession(t, nil)
	payload := completedPayload(t, metadata)

	if _, err := ConfirmPayment(ctx, f.db, EventCheckoutCompleted, payload); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	again, err := ConfirmPayment(ctx, f.db, EventCheckoutCompleted, payload)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if again != nil {
		t.Errorf("second delivery produced %+v", again)
	}

	var orders, tasks int64
	f.db.Model(&model.Order{}).Count(&orders)
	f.db.Model(&model.KitchenTask{}).Count(&tasks)
	if orders != 1 || tasks != 1 {
		t.Errorf("orders = %d, tasks = %d after duplicate delivery", orders, tasks)
	}
	if got := pointsOf(t, f.db, f.student.ID); got != 4 {
		t.Errorf("points = %d, want 4", got)
	}
}

func TestConfirmPaymentWithCoupon(t *testing.T) {
	f := newCheckoutFixture(t)
	givePoints(t, f.db, f.student.ID, 50)
	coupon := newCoupon(t, f.db, model.Coupon{Type: constants.COUPON_PERCENTAGE, DiscountValue: dec("20"), PointsCost: 50})
	uc, _, err := PurchaseCoupon(ctx, f.db, f.student.ID, coupon.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	metadata := f.createSession(t, &uc.ID)
	if metadata[MetaUserCouponID] != uc.ID.String() {
		t.Errorf("coupon metadata = %q", metadata[MetaUserCouponID])
	}
	if !f.gateway.requests[0].Amount.Equal(dec("36")) {
		t.Errorf("charged %s, want 36", f.gateway.requests[0].Amount)
	}

	var stored model.UserCoupon
	f.db.First(&stored, "id = ?", uc.ID)
	if stored.IsUsed {
		t.Fatalf("session creation consumed the coupon")
	}

	confirmed, err := ConfirmPayment(ctx, f.db, EventCheckoutCompleted, completedPayload(t, metadata))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !confirmed.Order.DiscountAmount.Equal(dec("9")) || !confirmed.Order.Total.Equal(dec("36")) {
		t.Errorf("discount %s total %s", confirmed.Order.DiscountAmount, confirmed.Order.Total)
	}
	var used model.UserCoupon
	f.db.First(&used, "id = ?", uc.ID)
	if !used.IsUsed {
		t.Errorf("coupon not consumed on confirmation")
	}
	if confirmed.Points != 3 {
		t.Errorf("points = %d, want 3", confirmed.Points)
	}
	assertLedgerBalanced(t, f.db, f.student.ID)
}

func TestConfirmPaymentIgnoredEvents(t *testing.T) {
	f := newCheckoutFixture(t)
	metadata := f.createSession(t, nil)

	got, err := ConfirmPayment(ctx, f.db, "payment_intent.created", completedPayload(t, metadata))
	if err != nil || got != nil {
		t.Errorf("other event = %+v, %v", got, err)
	}

	metadata[MetaPaymentID] = uuid.NewString()
	got, err = ConfirmPayment(ctx, f.db, EventCheckoutCompleted, completedPayload(t, metadata))
	if err != nil || got != nil {
		t.Errorf("unknown payment = %+v, %v", got, err)
	}
}

func TestConfirmPaymentRejectsBadPayload(t *testing.T) {
	f := newCheckoutFixture(t)
	valid := f.createSession(t, nil)

	withValue := func(key, value string) map[string]string {
		m := map[string]string{}
		for k, v := range valid {
			m[k] = v
		}
		if value == "" {
			delete(m, key)
		} else {
			m[key] = value
		}
		return m
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		{"not json", []byte("{")},
		{"missing payment id", completedPayload(t, withValue(MetaPaymentID, ""))},
		{"missing user id", completedPayload(t, withValue(MetaUserID, ""))},
		{"missing items", completedPayload(t, withValue(MetaOrderItems, ""))},
		{"bad payment id", completedPayload(t, withValue(MetaPaymentID, "abc"))},
		{"bad items", completedPayload(t, withValue(MetaOrderItems, "[{"))},
		{"bad coupon id", completedPayload(t, withValue(MetaUserCouponID, "abc"))},
		{"other user", completedPayload(t, withValue(MetaUserID, uuid.NewString()))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfirmPayment(ctx, f.db, EventCheckoutCompleted, tt.payload)
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("err = %v, want ErrInvalidPayload", err)
			}
		})
	}

	var payment model.Payment
	f.db.First(&payment, "id = ?", valid[MetaPaymentID])
	if payment.Status != constants.PAYMENT_PENDING {
		t.Errorf("rejected payloads changed payment status to %s", payment.Status)
	}
}

func TestExpireStalePayments(t *testing.T) {
	db := newTestDB(t)
	student := newStudent(t, db)
	old := model.Payment{UserId: student.ID, Amount: dec("10"), Currency: "ron", Status: constants.PAYMENT_PENDING}
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	fresh := model.Payment{UserId: student.ID, Amount: dec("10"), Currency: "ron", Status: constants.PAYMENT_PENDING}
	db.Create(&old)
	db.Create(&fresh)

	n, err := ExpireStalePayments(ctx, db, 24*time.Hour)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Errorf("expired %d, want 1", n)
	}
	var got model.Payment
	db.First(&got, "id = ?", old.ID)
	if got.Status != constants.PAYMENT_EXPIRED {
		t.Errorf("old payment status = %s", got.Status)
	}
}

func TestConfirmPaymentCouponSpentElsewhere(t *testing.T) {
	f := newCheckoutFixture(t)
	givePoints(t, f.db, f.student.ID, 10)
	coupon := newCoupon(t, f.db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("10"), PointsCost: 10})
	uc, _, err := PurchaseCoupon(ctx, f.db, f.student.ID, coupon.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	metadata := f.createSession(t, &uc.ID)

	if _, err := PlaceOrder(ctx, f.db, f.student, model.PlaceOrderInput{Items: f.basket(), UserCouponId: &uc.ID}); err != nil {
		t.Fatalf("direct order: %v", err)
	}

	confirmed, err := ConfirmPayment(ctx, f.db, EventCheckoutCompleted, completedPayload(t, metadata))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	order := confirmed.Order
	if !order.Total.Equal(dec("35")) || !order.DiscountAmount.Equal(dec("10")) || order.AppliedCouponId != nil {
		t.Errorf("total %s discount %s coupon %v, want the charged 35", order.Total, order.DiscountAmount, order.AppliedCouponId)
	}
	if confirmed.Points != 3 {
		t.Errorf("points = %d, want 3", confirmed.Points)
	}
	assertLedgerBalanced(t, f.db, f.student.ID)
}

func TestConfirmPaymentAfterPriceDrop(t *testing.T) {
	f := newCheckoutFixture(t)
	minimum := dec("40")
	givePoints(t, f.db, f.student.ID, 10)
	coupon := newCoupon(t, f.db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5"), MinimumOrderAmount: &minimum, PointsCost: 10})
	uc, _, err := PurchaseCoupon(ctx, f.db, f.student.ID, coupon.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	metadata := f.createSession(t, &uc.ID)
	f.db.Model(&model.MenuItem{}).Where("id = ?", f.pizza.ID).Update("price", dec("15"))

	confirmed, err := ConfirmPayment(ctx, f.db, EventCheckoutCompleted, completedPayload(t, metadata))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !confirmed.Order.Subtotal.Equal(dec("35")) || !confirmed.Order.Total.Equal(dec("30")) || confirmed.Order.AppliedCouponId == nil {
		t.Errorf("order = %+v", confirmed.Order)
	}

	var payment model.Payment
	f.db.First(&payment, "id = ?", metadata[MetaPaymentID])
	if payment.Status != constants.PAYMENT_SUCCEDED {
		t.Errorf("payment status = %s", payment.Status)
	}
	var used model.UserCoupon
	f.db.First(&used, "id = ?", uc.ID)
	if !used.IsUsed {
		t.Errorf("coupon not consumed")
	}
}
