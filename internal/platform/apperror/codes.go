package apperror

// ErrorCode is the coarse, transport-level category of an error.
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternalError    ErrorCode = "INTERNAL_SERVER_ERROR"
)

// BusinessCode names the specific domain reason behind an error.
type BusinessCode string

const (
	BusinessCodeGeneral        BusinessCode = "GENERAL"
	BusinessCodeInvalidFormat  BusinessCode = "INVALID_FORMAT"
	BusinessCodeInvalidContent BusinessCode = "INVALID_CONTENT"

	BusinessCodePostNotFound   BusinessCode = "POST_NOT_FOUND"
	BusinessCodeAuthorNotFound BusinessCode = "AUTHOR_NOT_FOUND"
	BusinessCodeUserNotFound   BusinessCode = "USER_NOT_FOUND"

	BusinessCodeInvalidUsername  BusinessCode = "INVALID_USERNAME"
	BusinessCodeUsernameTaken    BusinessCode = "USERNAME_TAKEN"
	BusinessCodeNotAuthenticated BusinessCode = "NOT_AUTHENTICATED"
)
