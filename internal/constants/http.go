package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// Common HTTP Error Messages
const (
	MsgNotFound           = "Resource not found"
	MsgBadRequest         = "Invalid request"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgConflict           = "Resource conflict"
	MsgValidationFailed   = "Validation failed"
)

// HTTP Success Messages
const (
	MsgCreated        = "Resource created successfully"
	MsgUpdated        = "Resource updated successfully"
	MsgDeleted        = "Resource deleted successfully"
	MsgFiltersApplied = "Filters applied"
	MsgFiltersCleared = "Filters cleared"
	MsgGridReset      = "Grid state reset"
)
