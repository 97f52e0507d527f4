package constants

const (
	ROLE_STUDENT = "STUDENT"
	ROLE_WORKER  = "WORKER"
	ROLE_MANAGER = "MANAGER"
)

var ROLES = []string{ROLE_STUDENT, ROLE_WORKER, ROLE_MANAGER}

// Order.Status
const (
	ORDER_PENDING   = "Pending"
	ORDER_CONFIRMED = "Confirmed"
	ORDER_PREPARING = "Preparing"
	ORDER_COMPLETED = "Completed"
	ORDER_CANCELLED = "Cancelled"
)

// KitchenTask.Status
const (
	KITCHEN_NOT_STARTED = "NotStarted"
	KITCHEN_PREPARING   = "Preparing"
	KITCHEN_READY       = "Ready"
	KITCHEN_COMPLETED   = "Completed"
)

var KITCHEN_STATUSES = []string{KITCHEN_NOT_STARTED, KITCHEN_PREPARING, KITCHEN_READY, KITCHEN_COMPLETED}

// Coupon.Type
const (
	COUPON_PERCENTAGE   = "PercentageDiscount"
	COUPON_FIXED_AMOUNT = "FixedAmountDiscount"
	COUPON_FREE_ITEM    = "FreeItem"
)

var COUPON_TYPES = []string{COUPON_PERCENTAGE, COUPON_FIXED_AMOUNT, COUPON_FREE_ITEM}

// LoyaltyTransaction.Type
const (
	LOYALTY_EARNED   = "Earned"
	LOYALTY_REDEEMED = "Redeemed"
	LOYALTY_ADJUSTED = "Adjusted"
)

// Payment.Status. SUCCEDED keeps the spelling stored by existing rows.
const (
	PAYMENT_PENDING  = "PENDING"
	PAYMENT_SUCCEDED = "SUCCEDED"
	PAYMENT_EXPIRED  = "EXPIRED"
)

const (
	MENU_MAIN    = "MAIN"
	MENU_SIDE    = "SIDE"
	MENU_DRINK   = "DRINK"
	MENU_DESSERT = "DESSERT"
	MENU_SNACK   = "SNACK"
)

var MENU_CATEGORIES = []string{MENU_MAIN, MENU_SIDE, MENU_DRINK, MENU_DESSERT, MENU_SNACK}

const POINTS_PER_CURRENCY_UNIT = 10
