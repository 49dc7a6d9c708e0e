package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "VALIDATION_ERROR"
	ErrorTypeUnauthenticated   ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden         ErrorType = "FORBIDDEN"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeConflict          ErrorType = "CONFLICT"
	ErrorTypeInvalidTransition ErrorType = "INVALID_TRANSITION"
	ErrorTypeCapacityExceeded  ErrorType = "CAPACITY_EXCEEDED"
	ErrorTypeRateLimited       ErrorType = "RATE_LIMITED"
	ErrorTypeInternal          ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidGrade     ErrorCode = "INVALID_GRADE"
	ErrCodeInvalidAction    ErrorCode = "INVALID_ACTION"

	ErrCodeInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAuthenticationRequired ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodeInsufficientRole       ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeNotAssigned            ErrorCode = "NOT_ASSIGNED"
	ErrCodeNotOwner               ErrorCode = "NOT_OWNER"
	ErrCodeProfileMissing         ErrorCode = "PROFILE_MISSING"

	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeDudiNotFound    ErrorCode = "DUDI_NOT_FOUND"
	ErrCodeMagangNotFound  ErrorCode = "MAGANG_NOT_FOUND"
	ErrCodeLogbookNotFound ErrorCode = "LOGBOOK_NOT_FOUND"

	ErrCodeInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	ErrCodeStartDateNotReached    ErrorCode = "START_DATE_NOT_REACHED"
	ErrCodeAlreadyVerified        ErrorCode = "ALREADY_VERIFIED"
	ErrCodeMagangNotRunning       ErrorCode = "MAGANG_NOT_RUNNING"
	ErrCodeQuotaFull              ErrorCode = "QUOTA_FULL"
	ErrCodeActiveInternshipExists ErrorCode = "ACTIVE_INTERNSHIP_EXISTS"
	ErrCodeDudiNotActive          ErrorCode = "DUDI_NOT_ACTIVE"

	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins every field message of a validation error.
func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches two AppErrors by type and code so sentinels work with errors.Is
// even after WithCause/WithDetails copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying cause; sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newAppError(t ErrorType, code ErrorCode, message string, status int) *AppError {
	return &AppError{
		Type:       t,
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, message, http.StatusBadRequest)
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationError("Validation failed", ErrCodeValidationFailed).WithDetails(ValidationErrors{
		Errors: []ValidationError{
			{Field: field, Message: message, Code: string(code)},
		},
	})
}

func NewUnauthenticatedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthenticated, code, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, message, http.StatusForbidden)
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, message, http.StatusNotFound)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, message, http.StatusConflict)
}

func NewInvalidTransitionError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeInvalidTransition, code, message, http.StatusConflict)
}

func NewCapacityExceededError(message string) *AppError {
	return newAppError(ErrorTypeCapacityExceeded, ErrCodeQuotaFull, message, http.StatusConflict)
}

func NewRateLimitedError(message string) *AppError {
	return newAppError(ErrorTypeRateLimited, ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, ErrCodeInternal, message, http.StatusInternalServerError).WithCause(cause)
}

var (
	ErrInvalidCredentials     = NewUnauthenticatedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrAuthenticationRequired = NewUnauthenticatedError("authentication required", ErrCodeAuthenticationRequired)
	ErrInsufficientRole       = NewForbiddenError("insufficient role for this resource", ErrCodeInsufficientRole)
	ErrInvalidID              = NewValidationError("invalid id", ErrCodeInvalidID)
	ErrInvalidBody            = NewValidationError("invalid request body", ErrCodeInvalidBody)
)

// IsAppError unwraps err until an *AppError is found.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TypeOf reports the AppError type of err, or ErrorTypeInternal.
func TypeOf(err error) ErrorType {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
