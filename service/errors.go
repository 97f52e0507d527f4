package service

import "errors"

var (
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrMinimumOrderNotMet = errors.New("minimum order amount not met")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAlreadyTerminal    = errors.New("order is already cancelled or completed")
	ErrForbidden          = errors.New("forbidden")

	ErrAccountNotFound    = errors.New("loyalty account not found")
	ErrInsufficientPoints = errors.New("insufficient points")

	ErrCouponNotFound = errors.New("coupon not found")
	ErrCouponInactive = errors.New("coupon is not active")
	ErrCouponExpired  = errors.New("coupon has expired")

	ErrTaskNotFound  = errors.New("kitchen task not found")
	ErrInvalidStatus = errors.New("invalid kitchen status")

	ErrInvalidPayload  = errors.New("invalid payment payload")
	ErrPaymentNotFound = errors.New("payment not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
)
