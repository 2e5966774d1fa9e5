package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	MaxHearts = 5

	MaxChatMessageLength = 500

	ModelUsedFallback = "fallback"
)

// Error keywords carried in Response.Message by the core endpoints.
const (
	ErrKeywordUnauthorized = "Unauthorized"
	ErrKeywordValidation   = "validation"
	ErrKeywordOutOfHearts  = "out_of_hearts"
	ErrKeywordServerError  = "server_error"
)
