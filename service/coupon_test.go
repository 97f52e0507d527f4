package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestCreateCoupon(t *testing.T) {
	db := newTestDB(t)
	manager := newUser(t, db, constants.ROLE_MANAGER)
	student := newStudent(t, db)
	fries := newMenuItem(t, db, "Fries", "8")
	missing := uuid.New()

	tests := []struct {
		name    string
		actor   model.ActingUser
		input   model.CreateCouponInput
		wantErr error
	}{
		{
			name:  "percentage",
			actor: manager,
			input: model.CreateCouponInput{Name: "10 off", Description: "d", Type: constants.COUPON_PERCENTAGE, DiscountValue: dec("10"), PointsCost: 50},
		},
		{
			name:  "free item",
			actor: manager,
			input: model.CreateCouponInput{Name: "free fries", Description: "d", Type: constants.COUPON_FREE_ITEM, PointsCost: 30, SpecificMenuItemId: &fries.ID},
		},
		{
			name:    "students cannot create",
			actor:   student,
			input:   model.CreateCouponInput{Name: "x", Description: "d", Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5"), PointsCost: 10},
			wantErr: ErrForbidden,
		},
		{
			name:    "unknown menu item",
			actor:   manager,
			input:   model.CreateCouponInput{Name: "x", Description: "d", Type: constants.COUPON_FREE_ITEM, PointsCost: 10, SpecificMenuItemId: &missing},
			wantErr: ErrMenuItemNotFound,
		},
		{
			name:    "free item without menu item",
			actor:   manager,
			input:   model.CreateCouponInput{Name: "x", Description: "d", Type: constants.COUPON_FREE_ITEM, PointsCost: 10},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero fixed amount",
			actor:   manager,
			input:   model.CreateCouponInput{Name: "x", Description: "d", Type: constants.COUPON_FIXED_AMOUNT, PointsCost: 10},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero cost",
			actor:   manager,
			input:   model.CreateCouponInput{Name: "x", Description: "d", Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5")},
			wantErr: ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon, err := CreateCoupon(ctx, db, tt.actor, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !coupon.IsActive {
				t.Errorf("new coupon should be active")
			}
		})
	}
}

func TestPurchaseCoupon(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)

	tests := []struct {
		name          string
		coupon        model.Coupon
		inactive      bool
		points        int
		noAccount     bool
		wrongCoupon   bool
		wantErr       error
		wantRemaining int
	}{
		{name: "success", coupon: model.Coupon{PointsCost: 40, ExpiresAtUtc: &future}, points: 100, wantRemaining: 60},
		{name: "unknown coupon", coupon: model.Coupon{PointsCost: 40}, points: 100, wrongCoupon: true, wantErr: ErrCouponNotFound, wantRemaining: 100},
		{name: "inactive", coupon: model.Coupon{PointsCost: 40}, inactive: true, points: 100, wantErr: ErrCouponInactive, wantRemaining: 100},
		{name: "expired", coupon: model.Coupon{PointsCost: 40, ExpiresAtUtc: &past}, points: 100, wantErr: ErrCouponExpired, wantRemaining: 100},
		{name: "no account", coupon: model.Coupon{PointsCost: 40}, noAccount: true, wantErr: ErrAccountNotFound},
		{name: "insufficient points", coupon: model.Coupon{PointsCost: 400}, points: 100, wantErr: ErrInsufficientPoints, wantRemaining: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			user := newStudent(t, db)
			if !tt.noAccount {
				givePoints(t, db, user.ID, tt.points)
			}
			tt.coupon.Type = constants.COUPON_FIXED_AMOUNT
			tt.coupon.DiscountValue = dec("5")
			coupon := newCoupon(t, db, tt.coupon)
			if tt.inactive {
				db.Model(&coupon).Update("is_active", false)
			}
			couponID := coupon.ID
			if tt.wrongCoupon {
				couponID = uuid.New()
			}

			uc, remaining, err := PurchaseCoupon(ctx, db, user.ID, couponID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			var held int64
			db.Model(&model.UserCoupon{}).Where("user_id = ?", user.ID).Count(&held)
			if tt.wantErr != nil {
				if held != 0 {
					t.Errorf("failed purchase left %d user coupons", held)
				}
				if !tt.noAccount && pointsOf(t, db, user.ID) != tt.wantRemaining {
					t.Errorf("balance changed on failure")
				}
				return
			}

			if remaining != tt.wantRemaining || held != 1 {
				t.Errorf("remaining = %d, held = %d", remaining, held)
			}
			if uc.IsUsed || uc.ExpiresAtUtc == nil || !uc.ExpiresAtUtc.Equal(*tt.coupon.ExpiresAtUtc) {
				t.Errorf("user coupon = %+v", uc)
			}
			assertLedgerBalanced(t, db, user.ID)
		})
	}
}

func TestPurchasedCouponKeepsExpiryFromPurchaseTime(t *testing.T) {
	db := newTestDB(t)
	user := newStudent(t, db)
	givePoints(t, db, user.ID, 100)
	expiry := time.Now().UTC().Add(48 * time.Hour)
	coupon := newCoupon(t, db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5"), PointsCost: 10, ExpiresAtUtc: &expiry})

	uc, _, err := PurchaseCoupon(ctx, db, user.ID, coupon.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	earlier := time.Now().UTC().Add(-time.Hour)
	db.Model(&coupon).Update("expires_at_utc", earlier)

	var stored model.UserCoupon
	db.First(&stored, "id = ?", uc.ID)
	if stored.ExpiresAtUtc == nil || !stored.ExpiresAtUtc.Equal(expiry) {
		t.Errorf("user coupon expiry = %v, want %v", stored.ExpiresAtUtc, expiry)
	}
}

func TestDeleteCouponRefundsEveryHolder(t *testing.T) {
	db := newTestDB(t)
	manager := newUser(t, db, constants.ROLE_MANAGER)
	coupon := newCoupon(t, db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5"), PointsCost: 30})

	holders := []model.ActingUser{newStudent(t, db), newStudent(t, db), newStudent(t, db)}
	for _, h := range holders {
		givePoints(t, db, h.ID, 100)
		if _, _, err := PurchaseCoupon(ctx, db, h.ID, coupon.ID); err != nil {
			t.Fatalf("purchase: %v", err)
		}
		if got := pointsOf(t, db, h.ID); got != 70 {
			t.Fatalf("balance after purchase = %d, want 70", got)
		}
	}

	refunded, err := DeleteCoupon(ctx, db, manager, coupon.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(refunded) != 3 {
		t.Errorf("refunded %d users, want 3", len(refunded))
	}
	for _, h := range holders {
		if got := pointsOf(t, db, h.ID); got != 100 {
			t.Errorf("balance after refund = %d, want 100", got)
		}
		assertLedgerBalanced(t, db, h.ID)
	}

	var userCoupons, coupons int64
	db.Model(&model.UserCoupon{}).Count(&userCoupons)
	db.Model(&model.Coupon{}).Count(&coupons)
	if userCoupons != 0 || coupons != 0 {
		t.Errorf("left %d user coupons and %d coupons", userCoupons, coupons)
	}
}

// Holders are refunded even when the coupon was already spent on an order.
func TestDeleteCouponRefundsUsedCoupons(t *testing.T) {
	db := newTestDB(t)
	manager := newUser(t, db, constants.ROLE_MANAGER)
	student := newStudent(t, db)
	pizza := newMenuItem(t, db, "Pizza", "20")
	coupon := newCoupon(t, db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5"), PointsCost: 30})
	givePoints(t, db, student.ID, 30)

	uc, _, err := PurchaseCoupon(ctx, db, student.ID, coupon.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := PlaceOrder(ctx, db, student, model.PlaceOrderInput{
		Items:        []model.OrderItemInput{{MenuItemId: pizza.ID, Quantity: 1}},
		UserCouponId: &uc.ID,
	}); err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := DeleteCoupon(ctx, db, manager, coupon.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := pointsOf(t, db, student.ID); got != 30 {
		t.Errorf("balance = %d, want 30 after refunding a used coupon", got)
	}
	assertLedgerBalanced(t, db, student.ID)
}

func TestDeleteCouponErrors(t *testing.T) {
	db := newTestDB(t)
	manager := newUser(t, db, constants.ROLE_MANAGER)
	student := newStudent(t, db)
	coupon := newCoupon(t, db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5"), PointsCost: 30})

	if _, err := DeleteCoupon(ctx, db, student, coupon.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("student delete err = %v, want ErrForbidden", err)
	}
	if _, err := DeleteCoupon(ctx, db, manager, uuid.New()); !errors.Is(err, ErrCouponNotFound) {
		t.Errorf("unknown delete err = %v, want ErrCouponNotFound", err)
	}
}

func TestApplyCouponToOrder(t *testing.T) {
	minimum := dec("50")
	past := time.Now().UTC().Add(-time.Hour)

	tests := []struct {
		name         string
		coupon       model.Coupon
		used         bool
		otherOwner   bool
		expired      bool
		inactive     bool
		wantErr      error
		wantDiscount string
		wantApplied  bool
	}{
		{name: "percentage", coupon: model.Coupon{Type: constants.COUPON_PERCENTAGE, DiscountValue: dec("10")}, wantDiscount: "4.5", wantApplied: true},
		{name: "fixed", coupon: model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("100")}, wantDiscount: "45", wantApplied: true},
		{name: "used coupon ignored", coupon: model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5")}, used: true, wantDiscount: "0"},
		{name: "foreign coupon ignored", coupon: model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5")}, otherOwner: true, wantDiscount: "0"},
		{name: "expired coupon ignored", coupon: model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5")}, expired: true, wantDiscount: "0"},
		{name: "inactive coupon ignored", coupon: model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5")}, inactive: true, wantDiscount: "0"},
		{name: "minimum not met", coupon: model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("5"), MinimumOrderAmount: &minimum}, wantErr: ErrMinimumOrderNotMet},
		{name: "free item without menu item ignored", coupon: model.Coupon{Type: constants.COUPON_FREE_ITEM}, wantDiscount: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			student := newStudent(t, db)
			owner := student
			if tt.otherOwner {
				owner = newStudent(t, db)
			}
			tt.coupon.PointsCost = 10
			coupon := newCoupon(t, db, tt.coupon)
			if tt.inactive {
				db.Model(&coupon).Update("is_active", false)
			}
			uc := model.UserCoupon{UserId: owner.ID, CouponId: coupon.ID, AcquiredAtUtc: time.Now().UTC(), IsUsed: tt.used}
			if tt.expired {
				uc.ExpiresAtUtc = &past
			}
			if err := db.Create(&uc).Error; err != nil {
				t.Fatalf("create user coupon: %v", err)
			}

			order := &model.Order{
				UserId:   student.ID,
				Subtotal: dec("45"),
				Total:    dec("45"),
				Items:    []model.OrderItem{{MenuItemId: uuid.New(), Quantity: 1, UnitPrice: dec("45")}},
			}
			order.ID = uuid.New()

			err := db.Transaction(func(tx *gorm.DB) error {
				return ApplyCouponToOrder(tx, uc.ID, student.ID, order)
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !order.DiscountAmount.Equal(dec(tt.wantDiscount)) {
				t.Errorf("discount = %s, want %s", order.DiscountAmount, tt.wantDiscount)
			}
			if !order.Total.Equal(totalAfter(order.Subtotal, order.DiscountAmount)) {
				t.Errorf("total = %s, subtotal %s, discount %s", order.Total, order.Subtotal, order.DiscountAmount)
			}
			if (order.AppliedCouponId != nil) != tt.wantApplied {
				t.Errorf("applied = %v, want %v", order.AppliedCouponId, tt.wantApplied)
			}

			var stored model.UserCoupon
			db.First(&stored, "id = ?", uc.ID)
			if tt.wantApplied && (!stored.IsUsed || stored.UsedInOrderId == nil || *stored.UsedInOrderId != order.ID) {
				t.Errorf("user coupon not consumed: %+v", stored)
			}
			if !tt.wantApplied && !tt.used && stored.IsUsed {
				t.Errorf("ignored coupon was consumed: %+v", stored)
			}
		})
	}
}

func TestAvailableAndUserCoupons(t *testing.T) {
	db := newTestDB(t)
	student := newStudent(t, db)
	givePoints(t, db, student.ID, 100)
	past := time.Now().UTC().Add(-time.Hour)

	cheap := newCoupon(t, db, model.Coupon{Name: "cheap", Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("1"), PointsCost: 10})
	pricey := newCoupon(t, db, model.Coupon{Name: "pricey", Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("9"), PointsCost: 90})
	newCoupon(t, db, model.Coupon{Name: "expired", Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("1"), PointsCost: 5, ExpiresAtUtc: &past})

	available, err := GetAvailableCoupons(ctx, db, student.ID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(available) != 2 || available[0].ID != cheap.ID || available[1].ID != pricey.ID {
		t.Fatalf("available = %+v", available)
	}

	if _, _, err := PurchaseCoupon(ctx, db, student.ID, cheap.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	available, _ = GetAvailableCoupons(ctx, db, student.ID)
	if len(available) != 1 || available[0].ID != pricey.ID {
		t.Errorf("owned coupon still offered: %+v", available)
	}

	mine, err := GetUserCoupons(ctx, db, student.ID)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 1 || mine[0].CouponId != cheap.ID || mine[0].CouponName != "cheap" {
		t.Errorf("mine = %+v", mine)
	}
}

func TestDeactivateExpiredCoupons(t *testing.T) {
	db := newTestDB(t)
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)
	expired := newCoupon(t, db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("1"), PointsCost: 5, ExpiresAtUtc: &past})
	live := newCoupon(t, db, model.Coupon{Type: constants.COUPON_FIXED_AMOUNT, DiscountValue: dec("1"), PointsCost: 5, ExpiresAtUtc: &future})

	n, err := DeactivateExpiredCoupons(ctx, db)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if n != 1 {
		t.Errorf("deactivated %d, want 1", n)
	}
	var gotExpired, gotLive model.Coupon
	db.First(&gotExpired, "id = ?", expired.ID)
	if gotExpired.IsActive {
		t.Errorf("expired coupon still active")
	}
	db.First(&gotLive, "id = ?", live.ID)
	if !gotLive.IsActive {
		t.Errorf("live coupon deactivated")
	}
}
