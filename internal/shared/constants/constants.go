package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers                = "users"
	TableNGOProfiles          = "ngo_profiles"
	TableFundingOpportunities = "funding_opportunities"
	TableFitScans             = "fit_scans"
	TableUserPlans            = "user_plans"
	TableUsageLedger          = "usage_ledger"
	TableRefreshTokens        = "auth_refresh_tokens"
	TableMagicLinkTokens      = "auth_magic_link_tokens"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
)
