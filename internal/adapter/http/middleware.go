package http

import (
	"log/slog"
	"strings"
	"time"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDKey = "userID"

// RequireAuth accepts "Authorization: Bearer <token>" and stores the user id
// in Locals.
func RequireAuth(auth *usecase.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return apperrors.ErrUnauthorized
		}
		id, err := auth.Authenticate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return err
		}
		c.Locals(userIDKey, id)
		return c.Next()
	}
}

func userID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(userIDKey).(uuid.UUID)
	return id
}

// RateLimit allows limiter-many requests per user per window for the
// routes it wraps. Limiter errors let the request through.
func RateLimit(limiter Limiter, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		ok, err := limiter.Allow(c.UserContext(), scope+":"+userID(c).String())
		if err != nil {
			slog.Warn("rate limiter unavailable", "scope", scope, "error", err)
			return c.Next()
		}
		if !ok {
			return apperrors.ErrRateLimited
		}
		return c.Next()
	}
}

// RequestLogger writes one line per request. Errors are resolved through
// the app's error handler first so the logged status is the one sent.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []any{
			slog.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		}
		if id := userID(c); id != uuid.Nil {
			fields = append(fields, slog.String("user_id", id.String()))
		}
		switch {
		case status >= 500:
			slog.Error("HTTP Server Error", fields...)
		case status >= 400:
			slog.Warn("HTTP Client Error", fields...)
		default:
			slog.Info("HTTP Request", fields...)
		}
		return nil
	}
}

func planType(s string) domain.PlanType {
	return domain.PlanType(strings.TrimSpace(s))
}
