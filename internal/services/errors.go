package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid       ErrorCode = "invalid"
	ErrorNotFound      ErrorCode = "not_found"
	ErrorConflict      ErrorCode = "conflict"
	ErrorUnauthorized  ErrorCode = "unauthorized"
	ErrorCodeExhausted ErrorCode = "code_exhausted"
	ErrorUnavailable   ErrorCode = "unavailable"
)

// ServiceError is a caller-facing failure. Key names an entry in the server message table so the
// HTTP layer can localize it; Message is the English fallback.
type ServiceError struct {
	Code    ErrorCode
	Key     string
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

func NewInvalidError(key, msg string) error {
	return &ServiceError{Code: ErrorInvalid, Key: key, Message: msg}
}

func NewNotFoundError(key, msg string) error {
	return &ServiceError{Code: ErrorNotFound, Key: key, Message: msg}
}

func NewConflictError(key, msg string) error {
	return &ServiceError{Code: ErrorConflict, Key: key, Message: msg}
}

func NewUnauthorizedError(key, msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Key: key, Message: msg}
}

var (
	// ErrIncompleteAnswers means at least one question has no pick yet.
	ErrIncompleteAnswers = errors.New("answer set incomplete")
	// ErrBackendUnavailable is returned by stores whose persistence collaborator cannot be reached.
	ErrBackendUnavailable = &ServiceError{Code: ErrorUnavailable, Key: "err.unavailable", Message: "database not available"}
	// ErrCodeGenerationExhausted is returned after every code attempt collided.
	ErrCodeGenerationExhausted = &ServiceError{Code: ErrorCodeExhausted, Key: "err.code_exhausted", Message: "reservation code generation exhausted"}
	// ErrCodeTaken is returned by stores when an insert hits the unique reservation code index.
	ErrCodeTaken = errors.New("reservation code already taken")

	ErrCheckInPast     = &ServiceError{Code: ErrorInvalid, Key: "err.checkin_past", Message: "check-in date must be today or later"}
	ErrCheckOutBefore  = &ServiceError{Code: ErrorInvalid, Key: "err.checkout_before", Message: "check-out date must be after check-in date"}
	ErrNoAvailability  = &ServiceError{Code: ErrorConflict, Key: "err.no_availability", Message: "no rooms available for the selected dates"}
	ErrRoomTypeMissing = &ServiceError{Code: ErrorNotFound, Key: "err.room_type_not_found", Message: "room type not found"}
)

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
