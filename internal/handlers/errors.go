package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// serviceError maps service-layer error prefixes to HTTP status codes.
func serviceError(err error) *fiber.Error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "badrequest"):
		return fiber.NewError(fiber.StatusBadRequest, msg)
	case strings.Contains(msg, "not_found"):
		return fiber.NewError(fiber.StatusNotFound, msg)
	case strings.Contains(msg, "unauthorized"):
		return fiber.NewError(fiber.StatusUnauthorized, msg)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, msg)
	}
}

// requireUserID extracts the caller identity set by the gateway.
func requireUserID(c fiber.Ctx) (string, error) {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "User ID is required")
	}
	return userID, nil
}
