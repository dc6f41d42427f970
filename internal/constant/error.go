package constant

// Error codes carried by model.ValidationError, model.UnauthorizedError
// and model.StoreError.
const (
	ERR_VALIDATION_CODE            = "VALIDATION_ERROR"
	ERR_NOT_FOUND_ERROR            = "NOT_FOUND_ERROR"
	ERR_UNATHORIZED_ERROR          = "UNAUTHORIEZED_ERROR"
	ERR_INTERNAL_SERVER_ERROR_CODE = "INTERNAL_SERVER_ERROR"
	ERR_IO_FAILURE                 = "IO_FAILURE"
	ERR_MALFORMED_DOCUMENT         = "MALFORMED_DOCUMENT"
)

// Messages shown to callers.
const (
	ERR_INTENRAL_SERVER_ERROR_MESSAGE = "Something went wrong. If the problem persists, please contact support"
	ERR_NO_ACCESS_MESSAGE             = "❌ You do not have access"
	ERR_ADMINISTRATOR_ONLY_MESSAGE    = "❌ Administrators only"
	ERR_STORE_FAILURE_MESSAGE         = "❌ Could not save the change, please try again later"
)
