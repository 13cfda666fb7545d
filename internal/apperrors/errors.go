// Package apperrors defines the error type that crosses the HTTP boundary.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeInvalidCredentials  Code = "INVALID_CREDENTIALS"
	CodeNotFound            Code = "NOT_FOUND"
	CodeValidation          Code = "VALIDATION_FAILED"
	CodePaymentSignature    Code = "PAYMENT_SIGNATURE_INVALID"
	CodeSubscriptionActive  Code = "SUBSCRIPTION_ALREADY_ACTIVE"
	CodePlanNotFree         Code = "PLAN_NOT_FREE"
	CodeEmailTaken          Code = "EMAIL_TAKEN"
	CodeEntitlementDenied   Code = "ENTITLEMENT_DENIED"
	CodeQuotaExhausted      Code = "AI_QUOTA_EXHAUSTED"
	CodeUnknownTemplate     Code = "UNKNOWN_TEMPLATE"
	CodeFileTooLarge        Code = "FILE_TOO_LARGE"
	CodeUnsupportedFileType Code = "UNSUPPORTED_FILE_TYPE"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamTimeout     Code = "UPSTREAM_TIMEOUT"
	CodeStorageUnavailable  Code = "STORAGE_UNAVAILABLE"
	CodeDownloadConflict    Code = "DOWNLOAD_CONFLICT"
	CodeOperationFailed     Code = "OPERATION_FAILED"
)

type AppError struct {
	Code     Code        `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Code so copies made by WithDetails/WithError still match
// their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code Code, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPCode: httpCode}
}

// WithDetails returns a copy; sentinels are shared.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithError returns a copy carrying err as its cause.
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage returns a copy with a different user-facing message.
func (e *AppError) WithMessage(msg string) *AppError {
	cp := *e
	cp.Message = msg
	return &cp
}

var (
	ErrUnauthorized              = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrInvalidCredentials        = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrNotFound                  = New(CodeNotFound, "Not found", http.StatusNotFound)
	ErrResumeNotFound            = New(CodeNotFound, "Resume not found", http.StatusNotFound)
	ErrSubscriptionNotFound      = New(CodeNotFound, "No subscription", http.StatusNotFound)
	ErrValidation                = New(CodeValidation, "Validation failed", http.StatusBadRequest)
	ErrPaymentSignatureInvalid   = New(CodePaymentSignature, "Payment signature verification failed", http.StatusBadRequest)
	ErrSubscriptionAlreadyActive = New(CodeSubscriptionActive, "An active subscription already exists", http.StatusBadRequest)
	ErrPlanNotFree               = New(CodePlanNotFree, "Plan is not the free plan", http.StatusBadRequest)
	ErrEmailTaken                = New(CodeEmailTaken, "Email is already registered", http.StatusConflict)
	ErrEntitlementDenied         = New(CodeEntitlementDenied, "Download not permitted", http.StatusForbidden)
	ErrQuotaExhausted            = New(CodeQuotaExhausted, "AI download limit exceeded", http.StatusForbidden)
	ErrUnknownTemplate           = New(CodeUnknownTemplate, "Unknown template", http.StatusBadRequest)
	ErrFileTooLarge              = New(CodeFileTooLarge, "File is too large", http.StatusBadRequest)
	ErrUnsupportedFileType       = New(CodeUnsupportedFileType, "Unsupported file type", http.StatusBadRequest)
	ErrRateLimited               = New(CodeRateLimited, "Too many requests, please try again later", http.StatusTooManyRequests)
	ErrStorageUnavailable        = New(CodeStorageUnavailable, "File storage is not configured", http.StatusServiceUnavailable)
	ErrDownloadConflict          = New(CodeDownloadConflict, "Your plan changed during the download, please try again", http.StatusConflict)
	ErrOperationFailed           = New(CodeOperationFailed, "Operation failed", http.StatusInternalServerError)
)

// Validation builds a 400 carrying field-level details.
func Validation(details interface{}) *AppError {
	return ErrValidation.WithDetails(details)
}

// BadRequest is a 400 with a custom message.
func BadRequest(msg string) *AppError {
	return ErrValidation.WithMessage(msg)
}

// Upstream maps a third-party status code to the status returned to the
// caller. Zero means the call never got a response.
func Upstream(service string, status int, err error) *AppError {
	msg := fmt.Sprintf("%s is unavailable, please try again", service)
	switch {
	case status == http.StatusTooManyRequests:
		return Wrap(err, CodeRateLimited, fmt.Sprintf("%s is busy, please try again shortly", service), http.StatusTooManyRequests)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return Wrap(err, CodeUpstreamTimeout, fmt.Sprintf("%s timed out, please try again", service), http.StatusRequestTimeout)
	case status == 0 || status >= 500:
		return Wrap(err, CodeUpstreamUnavailable, msg, http.StatusServiceUnavailable)
	default:
		return Wrap(err, CodeOperationFailed, fmt.Sprintf("%s rejected the request, please try again", service), http.StatusInternalServerError)
	}
}

// From returns err as an *AppError, wrapping unknown errors as
// ErrOperationFailed.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return ErrOperationFailed.WithError(err)
}
