package http

import (
	"errors"
	"log/slog"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Error             *apperrors.AppError  `json:"error"`
	RedirectToPayment bool                 `json:"redirectToPayment,omitempty"`
	SuggestedPlan     domain.PlanType      `json:"suggestedPlan,omitempty"`
	Eligibility       *usecase.Eligibility `json:"eligibility,omitempty"`
}

// ErrorHandler is the only place errors become responses. Denied exports
// also carry the upgrade path.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var body errorBody

	var fe *fiber.Error
	var denied *usecase.DeniedError
	switch {
	case errors.As(err, &denied):
		el := denied.Eligibility
		body.Error = apperrors.From(err)
		body.RedirectToPayment = el.RedirectToPayment
		body.SuggestedPlan = el.SuggestedPlan
		body.Eligibility = &el
	case errors.As(err, &fe):
		body.Error = fromFiber(fe)
	default:
		body.Error = apperrors.From(err)
	}

	if body.Error.HTTPCode >= 500 {
		slog.Error("request failed", "path", c.Path(), "code", body.Error.Code, "error", err)
	}
	return c.Status(body.Error.HTTPCode).JSON(body)
}

func fromFiber(fe *fiber.Error) *apperrors.AppError {
	switch fe.Code {
	case fiber.StatusNotFound:
		return apperrors.ErrNotFound.WithMessage(fe.Message)
	case fiber.StatusRequestEntityTooLarge:
		return apperrors.ErrFileTooLarge
	case fiber.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case fiber.StatusTooManyRequests:
		return apperrors.ErrRateLimited
	}
	if fe.Code >= 400 && fe.Code < 500 {
		return apperrors.BadRequest(fe.Message)
	}
	return apperrors.ErrOperationFailed.WithError(fe)
}
