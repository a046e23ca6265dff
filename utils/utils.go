package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// GenerateRateLimitKey creates a unique key for rate limiting
func GenerateRateLimitKey(orgID, campaignID, path string) string {
	return fmt.Sprintf("rl:%s:%s:%s", orgID, campaignID, path)
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}

// ErrorResponse writes the standard error body
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// ValidationResponse writes a 400 with per-field messages
func ValidationResponse(c *fiber.Ctx, message string, fields map[string]string) error {
	body := fiber.Map{"error": message}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
