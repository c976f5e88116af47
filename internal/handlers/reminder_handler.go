package handlers

import (
	"context"

	"farmassist-backend/internal/models"
	"farmassist-backend/internal/services"
	"farmassist-backend/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ReminderHandler struct {
	reminderService *services.ReminderService
	trendService    *services.HealthTrendService
	weatherService  *services.WeatherService
}

func NewReminderHandler(reminderService *services.ReminderService, trendService *services.HealthTrendService, weatherService *services.WeatherService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		trendService:    trendService,
		weatherService:  weatherService,
	}
}

func (h *ReminderHandler) RegisterRoutes(app *fiber.App) {
	protectedGr := app.Group("farm/protected/api/v1")

	protectedGr.Post("/reminders", h.CreateReminder)
	protectedGr.Get("/reminders/active", h.GetActiveReminders)
	protectedGr.Get("/reminders/overdue", h.GetOverdueReminders)
	protectedGr.Get("/reminders/upcoming", h.GetUpcomingReminders)
	protectedGr.Get("/reminders/counts", h.GetReminderCounts)
	protectedGr.Post("/reminders/weather-sync", h.WeatherSync)
	protectedGr.Put("/reminders/:id/complete", h.CompleteReminder)
	protectedGr.Put("/reminders/:id/snooze", h.SnoozeReminder)
	protectedGr.Delete("/reminders/:id", h.DeleteReminder)
}

type createReminderRequest struct {
	Type         models.ReminderType     `json:"type"`
	Priority     models.ReminderPriority `json:"priority"`
	Title        string                  `json:"title"`
	Message      string                  `json:"message"`
	ScheduledFor int64                   `json:"scheduled_for"`
	RelatedCrop  string                  `json:"related_crop"`
}

func (h *ReminderHandler) CreateReminder(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req createReminderRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	reminder, err := h.reminderService.CreateReminder(c.Context(), userID, models.Reminder{
		Type:         req.Type,
		Priority:     req.Priority,
		Title:        req.Title,
		Message:      req.Message,
		ScheduledFor: req.ScheduledFor,
		RelatedCrop:  req.RelatedCrop,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.CreateSuccessResponse(reminder))
}

func (h *ReminderHandler) GetActiveReminders(c fiber.Ctx) error {
	return h.listWith(c, h.reminderService.GetActiveReminders)
}

func (h *ReminderHandler) GetOverdueReminders(c fiber.Ctx) error {
	return h.listWith(c, h.reminderService.GetOverdueReminders)
}

func (h *ReminderHandler) GetUpcomingReminders(c fiber.Ctx) error {
	return h.listWith(c, h.reminderService.GetUpcomingReminders)
}

func (h *ReminderHandler) GetReminderCounts(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	counts, err := h.reminderService.GetReminderCounts(c.Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(counts))
}

// WeatherSync fetches current weather for the given location and generates
// weather-based reminders for every crop the user has scanned.
func (h *ReminderHandler) WeatherSync(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	location := c.Query("location")
	if location == "" {
		return fiber.NewError(fiber.StatusBadRequest, "location is required")
	}

	weather, err := h.weatherService.FetchCurrent(c.Context(), location)
	if err != nil {
		return serviceError(err)
	}

	crops, err := h.trendService.UserCrops(c.Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	created, err := h.reminderService.GenerateWeatherBasedReminders(c.Context(), userID, *weather, crops)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"weather":   weather,
		"reminders": created,
	}))
}

func (h *ReminderHandler) CompleteReminder(c fiber.Ctx) error {
	userID, id, err := reminderTarget(c)
	if err != nil {
		return err
	}

	if err := h.reminderService.CompleteReminder(c.Context(), userID, id); err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{"completed": true}))
}

type snoozeRequest struct {
	Hours int `json:"hours"`
}

func (h *ReminderHandler) SnoozeReminder(c fiber.Ctx) error {
	userID, id, err := reminderTarget(c)
	if err != nil {
		return err
	}

	var req snoozeRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Hours <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "hours must be greater than 0")
	}

	if err := h.reminderService.SnoozeReminder(c.Context(), userID, id, req.Hours); err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{"snoozed_hours": req.Hours}))
}

func (h *ReminderHandler) DeleteReminder(c fiber.Ctx) error {
	userID, id, err := reminderTarget(c)
	if err != nil {
		return err
	}

	if err := h.reminderService.DeleteReminder(c.Context(), userID, id); err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusNoContent).JSON(nil)
}

func (h *ReminderHandler) listWith(c fiber.Ctx, query func(ctx context.Context, userID string) ([]models.Reminder, error)) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	reminders, err := query(c.Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(reminders))
}

func reminderTarget(c fiber.Ctx) (string, uuid.UUID, error) {
	userID, err := requireUserID(c)
	if err != nil {
		return "", uuid.Nil, err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid reminder id")
	}

	return userID, id, nil
}
