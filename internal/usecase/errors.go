package usecase

import (
	"context"
	"errors"
	"net/http"

	"resume-builder/internal/apperrors"
)

// statusCoder is implemented by upstream client errors that carry the
// third party's HTTP status.
type statusCoder interface {
	StatusCode() int
}

func upstreamError(service string, err error) error {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return ae
	}
	status := 0
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusRequestTimeout
	}
	return apperrors.Upstream(service, status, err)
}

// DeniedError carries the evaluator's answer when an export is refused so
// the caller can offer the upgrade path.
type DeniedError struct {
	Eligibility Eligibility
}

func (e *DeniedError) Error() string {
	return "download denied: " + e.Eligibility.Reason
}

// Unwrap yields the API error matching the denial reason.
func (e *DeniedError) Unwrap() error {
	if e.Eligibility.Reason == ReasonAILimitExceeded {
		return apperrors.ErrQuotaExhausted
	}
	return apperrors.ErrEntitlementDenied.WithMessage(e.Eligibility.Reason)
}
