package constants

const (
	ROLE_ADMIN    = "ADMIN"
	ROLE_OPERATOR = "OPERATOR"
)

const (
	ERROR_INTERNAL_ERROR = "Internal server error"
	MISSING_LOGIN_INPUT  = "Missing username or password"
	INVALID_USERNAME     = "Username does not exist"
	INVALID_PASSWORD     = "Wrong password"
	ACCOUNT_NOT_ACTIVE   = "Account is not active"

	DATA_INPUT_IS_NOT_NUMBER = "Input data is not a number"
	ORDER_NOT_FOUND          = "Order not found"
	INVALID_VERIFY_TOKEN     = "Invalid verify token"
	NOT_ADMIN                = "Admin role required"
)

// Order status
const (
	ORDER_STATUS_NEW       = "new"
	ORDER_STATUS_CONFIRMED = "confirmed_via_flow"
	ORDER_STATUS_CANCELLED = "cancelled"
)

// Order source tags
const (
	ORDER_SOURCE_CHAT = "whatsapp"
	ORDER_SOURCE_FLOW = "whatsapp_flow"
)

// RestartKeywords reset the conversation to the main menu from any state.
var RestartKeywords = []string{"menu", "start", "restart", "main menu"}

// GreetingKeywords open language selection for a customer with no language yet.
var GreetingKeywords = []string{"hi", "hello", "salam", "assalamualaikum", "aoa"}
