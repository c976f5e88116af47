package handlers

import (
	"io"

	"farmassist-backend/internal/imaging"
	"farmassist-backend/internal/notify"
	"farmassist-backend/internal/services"
	"farmassist-backend/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type ScanHandler struct {
	scanService      *services.ScanService
	phoneCountryCode string
}

func NewScanHandler(scanService *services.ScanService, phoneCountryCode string) *ScanHandler {
	return &ScanHandler{
		scanService:      scanService,
		phoneCountryCode: phoneCountryCode,
	}
}

func (h *ScanHandler) RegisterRoutes(app *fiber.App) {
	protectedGr := app.Group("farm/protected/api/v1")

	protectedGr.Post("/scans/analyze", h.AnalyzeCrop)
	protectedGr.Post("/scans/validate", h.ValidateImage)
}

// AnalyzeCrop accepts a multipart crop photo and runs the full analysis
// pipeline. Pipeline failures come back as a typed outcome with HTTP 200; only
// malformed requests are HTTP errors.
func (h *ScanHandler) AnalyzeCrop(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	imageData, fileSize, err := readImageFile(c)
	if err != nil {
		return err
	}

	req := services.ScanRequest{
		CropType:     c.FormValue("crop_type"),
		FieldSection: c.FormValue("field_section"),
		Location:     c.FormValue("location"),
		FarmNotes:    c.FormValue("farm_notes"),
		Phone:        notify.NormalizeNumber(c.FormValue("phone"), h.phoneCountryCode),
		ImageData:    imageData,
		FileSize:     fileSize,
	}
	if req.CropType == "" {
		return fiber.NewError(fiber.StatusBadRequest, "crop_type is required")
	}

	result, err := h.scanService.AnalyzeCrop(c.Context(), userID, req)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(result))
}

// ValidateImage runs only the quality gate so clients can pre-check a photo
// before spending an analysis.
func (h *ScanHandler) ValidateImage(c fiber.Ctx) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}

	imageData, fileSize, err := readImageFile(c)
	if err != nil {
		return err
	}

	report := imaging.EvaluateQuality(fileSize, imageData)
	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(report))
}

func readImageFile(c fiber.Ctx) ([]byte, int64, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, "unable to open uploaded image")
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, "unable to read uploaded image")
	}

	return imageData, fileHeader.Size, nil
}
