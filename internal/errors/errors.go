package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrNotAuthenticated = &AppError{Code: "AUTH_001", Message: "not authenticated"}
	ErrForbidden        = &AppError{Code: "AUTH_002", Message: "forbidden"}

	ErrMedicationNotFound  = &AppError{Code: "MED_001", Message: "medication not found"}
	ErrAppointmentNotFound = &AppError{Code: "APPT_001", Message: "appointment not found"}
	ErrAppointmentLocked   = &AppError{Code: "APPT_002", Message: "appointment can no longer be edited"}
)

// Validation reports a rule violation detected before any write is
// attempted. Validation failures block the call entirely.
func Validation(message string) *AppError {
	return &AppError{Code: "VALID_001", Message: message}
}

// Store wraps an opaque failure from the entity store. It is surfaced to
// the caller unchanged: no retry, no finer classification.
func Store(op string, cause error) *AppError {
	return &AppError{Code: "STORE_001", Message: op + " failed", Cause: cause}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == "VALID_001"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
