package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const (
	MaxCategoryLen = 20
	MaxDays        = 365
)

// categoryRe matches category keys and Hangul display labels.
var categoryRe = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateCategory checks that a category path segment is well-formed.
// Resolution against the known category set happens in the handler.
func ValidateCategory(cat string) (string, string) {
	cat = strings.TrimSpace(cat)
	if cat == "" {
		return "", "category is required"
	}
	if len(cat) > MaxCategoryLen {
		return "", "category must be at most 20 characters"
	}
	if !categoryRe.MatchString(cat) {
		return "", "category contains invalid characters"
	}
	return cat, ""
}

// ValidateDays parses an optional ?days= window. Zero means "all retained".
func ValidateDays(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, "days must be a positive integer"
	}
	if n > MaxDays {
		return 0, "days must be at most 365"
	}
	return n, ""
}
