package handlers

import (
	"farmassist-backend/internal/services"
	"farmassist-backend/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type WeatherHandler struct {
	weatherService *services.WeatherService
}

func NewWeatherHandler(weatherService *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

func (h *WeatherHandler) RegisterRoutes(app *fiber.App) {
	protectedGr := app.Group("farm/protected/api/v1")

	protectedGr.Get("/weather", h.GetCurrentWeather)
}

// GetCurrentWeather returns the cached or freshly fetched conditions for a
// location. Degraded provider states still answer with neutral data.
func (h *WeatherHandler) GetCurrentWeather(c fiber.Ctx) error {
	if _, err := requireUserID(c); err != nil {
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

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(weather))
}
