package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fin-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const providerUnavailable = "Suggestion service is unavailable, try again later"

// respondError maps service errors to a status and a client-safe message.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, action string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFoundOrForbidden):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, service.ErrProviderTimeout):
		logger.Warn(action+" timed out", zap.Error(err))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": providerUnavailable})
	case errors.Is(err, service.ErrProvider):
		logger.Warn(action+" failed at provider", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": providerUnavailable})
	}

	logger.Error(action+" failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": action + " failed",
	})
}

// requestValidation reports malformed request input the same way the services report theirs.
func requestValidation(msg string) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, msg)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	return userID, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339 and returns UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func decimalPtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
