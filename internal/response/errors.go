package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidStatus  ErrCode = "INVALID_STATUS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Domain ────────────────────────────────────────────────────────
	ErrDuplicateReference  ErrCode = "DUPLICATE_REFERENCE"
	ErrClassGroupMismatch  ErrCode = "CLASS_GROUP_MISMATCH"
	ErrDuplicateBatchEntry ErrCode = "DUPLICATE_BATCH_ENTRY"
	ErrAlreadyRegistered   ErrCode = "ALREADY_REGISTERED"
	ErrRouteFull           ErrCode = "ROUTE_FULL"
	ErrInvoiceNotPayable   ErrCode = "INVOICE_NOT_PAYABLE"
	ErrOverpayment         ErrCode = "OVERPAYMENT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionInvalidated:
		return "Your session has expired. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This operation is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidStatus:
		return "The supplied status value is not supported."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrDependencyExists:
		return "This record cannot be removed because other records still depend on it."

	// ─── Domain ────────────────────────────────────────────────────────
	case ErrDuplicateReference:
		return "An active record already holds this reference code."
	case ErrClassGroupMismatch:
		return "The class group in the request body does not match the route."
	case ErrDuplicateBatchEntry:
		return "The batch contains more than one entry for the same student."
	case ErrAlreadyRegistered:
		return "The student is already registered to this activity."
	case ErrRouteFull:
		return "The bus route has reached its capacity."
	case ErrInvoiceNotPayable:
		return "Payments can only be recorded against issued invoices."
	case ErrOverpayment:
		return "The payment exceeds the remaining balance of the invoice."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
