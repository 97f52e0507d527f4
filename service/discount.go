package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount is the effect a coupon has on an order. The set of variants is
// closed: PercentageDiscount, FixedAmountDiscount and FreeItemDiscount.
type Discount interface {
	discount()
}

type PercentageDiscount struct {
	Percent decimal.Decimal
}

type FixedAmountDiscount struct {
	Amount decimal.Decimal
}

type FreeItemDiscount struct {
	MenuItemID uuid.UUID
}

func (PercentageDiscount) discount()  {}
func (FixedAmountDiscount) discount() {}
func (FreeItemDiscount) discount()    {}

var hundred = decimal.NewFromInt(100)

// DiscountFromCoupon builds the variant for a stored coupon row.
func DiscountFromCoupon(c model.Coupon) (Discount, error) {
	switch c.Type {
	case constants.COUPON_PERCENTAGE:
		return PercentageDiscount{Percent: c.DiscountValue}, nil
	case constants.COUPON_FIXED_AMOUNT:
		return FixedAmountDiscount{Amount: c.DiscountValue}, nil
	case constants.COUPON_FREE_ITEM:
		if c.SpecificMenuItemId == nil {
			return nil, fmt.Errorf("%w: free item coupon %s has no menu item", ErrInvalidInput, c.ID)
		}
		return FreeItemDiscount{MenuItemID: *c.SpecificMenuItemId}, nil
	}
	return nil, fmt.Errorf("%w: unknown coupon type %q", ErrInvalidInput, c.Type)
}

// ComputeDiscount is the only place the discount amount is derived.
func ComputeDiscount(d Discount, subtotal decimal.Decimal, items []model.OrderItem) decimal.Decimal {
	switch v := d.(type) {
	case PercentageDiscount:
		return subtotal.Mul(v.Percent).Div(hundred).Round(2)
	case FixedAmountDiscount:
		return decimal.Min(v.Amount, subtotal)
	case FreeItemDiscount:
		for _, item := range items {
			if item.MenuItemId == v.MenuItemID {
				return item.UnitPrice
			}
		}
		return decimal.Zero
	default:
		panic(fmt.Sprintf("unhandled discount variant %T", d))
	}
}

// totalAfter returns max(0, subtotal - discount).
func totalAfter(subtotal, discount decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, subtotal.Sub(discount))
}
