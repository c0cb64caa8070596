package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeManufacturerNotConfigured is used when a document is requested
	// before the manufacturer profile has been set up
	ErrCodeManufacturerNotConfigured = "ERR_MANUFACTURER_NOT_CONFIGURED"
)

// Rendering error codes
const (
	// ErrCodeEngineUnavailable is used when the render engine cannot be reached
	ErrCodeEngineUnavailable = "ERR_ENGINE_UNAVAILABLE"
	// ErrCodeLayoutOverflow is used when the invoice does not fit the page
	ErrCodeLayoutOverflow = "ERR_LAYOUT_OVERFLOW"
	// ErrCodeEncodingFailure is used when the artifact cannot be encoded
	ErrCodeEncodingFailure = "ERR_ENCODING_FAILURE"
	// ErrCodeStorageFailed is used when the artifact store is unreachable
	ErrCodeStorageFailed = "ERR_STORAGE_FAILED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:              http.StatusUnprocessableEntity,
	ErrCodeManufacturerNotConfigured: http.StatusUnprocessableEntity,

	// Rendering errors. An unavailable engine is a transient upstream
	// failure; overflow and encoding problems are permanent for the input.
	ErrCodeEngineUnavailable: http.StatusServiceUnavailable,
	ErrCodeLayoutOverflow:    http.StatusUnprocessableEntity,
	ErrCodeEncodingFailure:   http.StatusInternalServerError,
	ErrCodeStorageFailed:     http.StatusBadGateway,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain and render error codes to the
// standardized API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"ALREADY_EXISTS":              ErrCodeAlreadyExists,
	"INVALID_INPUT":               ErrCodeValidation,
	"INVALID_STATE":               ErrCodeInvalidState,
	"VALIDATION_ERROR":            ErrCodeValidation,
	"BAD_REQUEST":                 ErrCodeBadRequest,
	"INTERNAL_ERROR":              ErrCodeInternal,
	"MANUFACTURER_NOT_CONFIGURED": ErrCodeManufacturerNotConfigured,
	"ENGINE_UNAVAILABLE":          ErrCodeEngineUnavailable,
	"LAYOUT_OVERFLOW":             ErrCodeLayoutOverflow,
	"ENCODING_FAILURE":            ErrCodeEncodingFailure,
	"INVALID_RENDER_REQUEST":      ErrCodeBadRequest,
	"STORAGE_FAILED":              ErrCodeStorageFailed,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
