package booking

import "net/http"

type ErrorCode string

const (
	ErrorCodeValidation       ErrorCode = "VALIDATION"
	ErrorCodeInvalidSelection ErrorCode = "INVALID_SELECTION"
	ErrorCodeIndexOutOfRange  ErrorCode = "INDEX_OUT_OF_RANGE"
	ErrorCodeBusy             ErrorCode = "BUSY"
	ErrorCodeMalformedOffer   ErrorCode = "MALFORMED_OFFER"
	ErrorCodeProviderFailure  ErrorCode = "PROVIDER_FAILURE"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeInternalFailure  ErrorCode = "INTERNAL_FAILURE"
)

// AppError is the error shape surfaced by the booking workflow. Status is
// the HTTP status the transport layer should map it to.
type AppError struct {
	Status  int       `json:"-"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`

	// InvalidIndices lists the zero-based traveler records that failed
	// validation, so the caller can highlight exactly which passengers
	// are incomplete. Only set for traveler validation errors.
	InvalidIndices []int `json:"invalid_indices,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: ErrorCodeValidation, Message: msg}
}

func NewTravelerValidationError(msg string, indices []int) *AppError {
	return &AppError{
		Status:         http.StatusBadRequest,
		Code:           ErrorCodeValidation,
		Message:        msg,
		InvalidIndices: indices,
	}
}

func NewInvalidSelectionError(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: ErrorCodeInvalidSelection, Message: msg}
}

func NewIndexOutOfRangeError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: ErrorCodeIndexOutOfRange, Message: msg}
}

func NewBusyError(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: ErrorCodeBusy, Message: msg}
}

func NewMalformedOfferError(msg string) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: ErrorCodeMalformedOffer, Message: msg}
}

func NewProviderError(msg string) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: ErrorCodeProviderFailure, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: ErrorCodeNotFound, Message: msg}
}
