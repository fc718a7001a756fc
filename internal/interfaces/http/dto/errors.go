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

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
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
	// ErrCodeDeleteBlocked is used when deletion is refused to preserve history
	ErrCodeDeleteBlocked = "ERR_DELETE_BLOCKED"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInvoiceFinalized is used when mutating a finalized invoice
	ErrCodeInvoiceFinalized = "ERR_INVOICE_FINALIZED"
	// ErrCodeAlreadyFinalized is used when finalizing an invoice twice
	ErrCodeAlreadyFinalized = "ERR_ALREADY_FINALIZED"
	// ErrCodeOverpaymentRejected is used when a payment would exceed the total
	ErrCodeOverpaymentRejected = "ERR_OVERPAYMENT_REJECTED"
)

// Availability error codes
const (
	// ErrCodeAllocationExhausted is used when sequence allocation retries run out
	ErrCodeAllocationExhausted = "ERR_ALLOCATION_EXHAUSTED"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeDeleteBlocked: http.StatusConflict,

	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeInvoiceFinalized:    http.StatusUnprocessableEntity,
	ErrCodeAlreadyFinalized:    http.StatusUnprocessableEntity,
	ErrCodeOverpaymentRejected: http.StatusUnprocessableEntity,

	ErrCodeAllocationExhausted: http.StatusServiceUnavailable,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"DELETE_BLOCKED":       ErrCodeDeleteBlocked,
	"INVOICE_FINALIZED":    ErrCodeInvoiceFinalized,
	"ALREADY_FINALIZED":    ErrCodeAlreadyFinalized,
	"OVERPAYMENT_REJECTED": ErrCodeOverpaymentRejected,
	"ALLOCATION_EXHAUSTED": ErrCodeAllocationExhausted,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
