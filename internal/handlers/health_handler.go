package handlers

import (
	"time"

	"farmassist-backend/internal/event"
	"farmassist-backend/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	publisher *event.NotificationPublisher
	startedAt time.Time
}

func NewHealthHandler(publisher *event.NotificationPublisher) *HealthHandler {
	return &HealthHandler{
		publisher: publisher,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("farm/public/api/v1/health", h.HealthCheck)
}

func (h *HealthHandler) HealthCheck(c fiber.Ctx) error {
	status := fiber.Map{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}
	if h.publisher != nil {
		status["publisher"] = h.publisher.HealthCheck()
	}
	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(status))
}
