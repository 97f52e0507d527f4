package constants

const (
	ERROR_INTERNAL_ERROR       = "Internal server error"
	ERROR_PARSE_DATA_TO_LOCALS = "Could not read validated input"
	ERROR_INPUT                = "Invalid input"
	ERROR_CREATE               = "Create failed"
	ERROR_EDIT                 = "Update failed"
	ERROR_DELETE               = "Delete failed"
	DATA_INPUT_IS_NOT_UUID     = "Id must be a valid UUID"
	NOT_FOUND_RECORDS          = "Record not found"

	MISSING_LOGIN_INPUT   = "Email and password are required"
	INVALID_CREDENTIALS   = "Invalid email or password"
	EMAIL_EXISTS          = "Email is already registered"
	CAN_NOT_HASH_PASSWORD = "Could not hash password"
	MISSING_TOKEN         = "Missing token"
	INVALID_TOKEN         = "Invalid token"
	FORBIDDEN             = "You are not allowed to perform this action"

	ORDER_EMPTY             = "Order must contain at least one item"
	ORDER_INVALID_QUANTITY  = "All quantities must be greater than zero"
	ORDER_MENU_NOT_FOUND    = "Menu items not found"
	ORDER_MINIMUM_NOT_MET   = "Minimum order amount for this coupon is not met"
	ORDER_NOT_FOUND         = "Order not found"
	ORDER_ALREADY_TERMINAL  = "Order is already cancelled or completed"
	ORDER_CANCELLED_SUCCESS = "Order cancelled"

	LOYALTY_ACCOUNT_NOT_FOUND = "Loyalty account not found"
	LOYALTY_INSUFFICIENT      = "Insufficient points"
	LOYALTY_REDEEMED_SUCCESS  = "Points redeemed successfully"

	COUPON_NOT_FOUND         = "Coupon not found"
	COUPON_INACTIVE          = "Coupon is not available"
	COUPON_EXPIRED           = "Coupon has expired"
	COUPON_PURCHASED_SUCCESS = "Coupon purchased successfully"
	COUPON_DELETED_SUCCESS   = "Coupon deleted successfully"

	MENU_ITEM_NOT_FOUND = "Menu item not found"
	IMAGE_REQUIRED      = "Image file is required"
	IMAGE_UPLOAD_FAILED = "Image upload failed"

	KITCHEN_TASK_NOT_FOUND = "Kitchen task not found"
	KITCHEN_INVALID_STATUS = "Invalid status value"

	PAYMENT_GATEWAY_ERROR   = "Could not create checkout session"
	PAYMENT_INVALID_WEBHOOK = "Invalid webhook signature"
	PAYMENT_PROCESSING      = "Payment notification could not be processed"
)
