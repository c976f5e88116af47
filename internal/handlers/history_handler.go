package handlers

import (
	"farmassist-backend/internal/services"
	"farmassist-backend/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type HistoryHandler struct {
	trendService    *services.HealthTrendService
	reminderService *services.ReminderService
}

func NewHistoryHandler(trendService *services.HealthTrendService, reminderService *services.ReminderService) *HistoryHandler {
	return &HistoryHandler{
		trendService:    trendService,
		reminderService: reminderService,
	}
}

func (h *HistoryHandler) RegisterRoutes(app *fiber.App) {
	protectedGr := app.Group("farm/protected/api/v1")

	protectedGr.Get("/history", h.ListHistories)
	protectedGr.Get("/history/crops", h.ListUserCrops)
	protectedGr.Get("/history/:cropType", h.GetHistory)
	protectedGr.Delete("/userdata", h.WipeUserData)
}

func (h *HistoryHandler) ListHistories(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	histories, err := h.trendService.ListHistories(c.Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(histories))
}

func (h *HistoryHandler) ListUserCrops(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	crops, err := h.trendService.UserCrops(c.Context(), userID)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(crops))
}

func (h *HistoryHandler) GetHistory(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	cropType := c.Params("cropType")
	fieldSection := c.Query("field_section")

	history, err := h.trendService.GetHistory(c.Context(), userID, cropType, fieldSection)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(history))
}

// WipeUserData deletes every history and reminder the user owns.
func (h *HistoryHandler) WipeUserData(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	if err := h.trendService.WipeUserData(c.Context(), userID); err != nil {
		return serviceError(err)
	}
	if err := h.reminderService.WipeUserData(c.Context(), userID); err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusNoContent).JSON(nil)
}
