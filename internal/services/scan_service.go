package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"farmassist-backend/internal/ai/gemini"
	"farmassist-backend/internal/event"
	"farmassist-backend/internal/imaging"
	"farmassist-backend/internal/models"

	"github.com/google/uuid"
)

// VisionClient is the vision-AI collaborator boundary.
type VisionClient interface {
	Diagnose(ctx context.Context, prompt string, image []byte) (map[string]any, error)
}

// PhotoStore persists accepted scan photos and returns their resource URL.
type PhotoStore interface {
	UploadScanPhoto(ctx context.Context, userID, scanID string, data []byte, contentType string) (string, error)
}

// EventPublisher is the notification event boundary.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt event.NotificationEvent) error
}

// ScanRequest is one crop photo submitted for analysis.
type ScanRequest struct {
	CropType     string
	FieldSection string
	Location     string
	FarmNotes    string
	Phone        string
	ImageData    []byte
	FileSize     int64
}

// ScanResult is the typed outcome of an analysis request. Every failure path
// resolves here; callers branch on Outcome rather than on errors.
type ScanResult struct {
	Outcome          models.AnalysisOutcome    `json:"outcome"`
	Quality          imaging.QualityReport     `json:"quality"`
	Diagnosis        *models.CropDiagnosis     `json:"diagnosis,omitempty"`
	Scan             *models.CropScan          `json:"scan,omitempty"`
	History          *models.CropHealthHistory `json:"history,omitempty"`
	Reminders        []models.Reminder         `json:"reminders,omitempty"`
	NotificationSent bool                      `json:"notification_sent"`
	FailureReason    string                    `json:"failure_reason,omitempty"`
}

// ScanService orchestrates the analysis pipeline: quality gate, photo upload,
// AI diagnosis, catalog validation, history append, follow-up reminders and
// the notification event.
type ScanService struct {
	vision       VisionClient
	photos       PhotoStore
	publisher    EventPublisher
	trendService *HealthTrendService
	reminders    *ReminderService
	weather      *WeatherService
}

func NewScanService(
	vision VisionClient,
	photos PhotoStore,
	publisher EventPublisher,
	trendService *HealthTrendService,
	reminders *ReminderService,
	weather *WeatherService,
) *ScanService {
	return &ScanService{
		vision:       vision,
		photos:       photos,
		publisher:    publisher,
		trendService: trendService,
		reminders:    reminders,
		weather:      weather,
	}
}

// AnalyzeCrop runs the full pipeline for one photo.
func (s *ScanService) AnalyzeCrop(ctx context.Context, userID string, req ScanRequest) (*ScanResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("badrequest: user id is required")
	}
	if len(req.ImageData) == 0 {
		return nil, fmt.Errorf("badrequest: image data is required")
	}
	if req.CropType == "" {
		return nil, fmt.Errorf("badrequest: crop_type is required")
	}
	if req.FileSize == 0 {
		req.FileSize = int64(len(req.ImageData))
	}

	if !models.IsSupportedCrop(req.CropType) {
		return &ScanResult{
			Outcome:       models.OutcomeUnsupportedCrop,
			FailureReason: fmt.Sprintf("crop %q is not in the supported catalog", req.CropType),
		}, nil
	}

	quality := imaging.EvaluateQuality(req.FileSize, req.ImageData)
	if !quality.IsValid {
		return &ScanResult{
			Outcome:       models.OutcomeRejectedImage,
			Quality:       quality,
			FailureReason: "image failed the quality gate",
		}, nil
	}

	var weather *models.WeatherSnapshot
	if s.weather != nil && req.Location != "" {
		snapshot, err := s.weather.FetchCurrent(ctx, req.Location)
		if err == nil {
			weather = snapshot
		}
	}

	prompt := gemini.BuildDiagnosisPrompt(req.CropType, req.FarmNotes, weather)
	raw, err := s.vision.Diagnose(ctx, prompt, req.ImageData)
	if err != nil {
		slog.Error("AI diagnosis failed", "user_id", userID, "crop_type", req.CropType, "error", err)
		return &ScanResult{
			Outcome:       models.OutcomeFailed,
			Quality:       quality,
			FailureReason: "analysis failed; please try again",
		}, nil
	}

	diagnosis := gemini.ParseDiagnosis(raw)
	if !diagnosis.IsPlant {
		return &ScanResult{
			Outcome:       models.OutcomeNotPlant,
			Quality:       quality,
			Diagnosis:     &diagnosis,
			FailureReason: "the photo does not appear to show a plant",
		}, nil
	}

	// The AI's disease label is only trusted after catalog validation.
	validated := models.ValidateDiagnosis(req.CropType, diagnosis.DetectedDisease)
	isHealthy := diagnosis.IsHealthy || validated.Healthy

	scan := models.CropScan{
		ID:           uuid.New(),
		Timestamp:    time.Now().Unix(),
		CropType:     req.CropType,
		FieldSection: req.FieldSection,
		IsHealthy:    isHealthy,
		Severity:     diagnosis.Severity,
		Confidence:   diagnosis.Confidence,
		Observations: diagnosis.Observations,
	}
	if !isHealthy {
		disease := validated.Disease
		scan.DetectedDisease = &disease
		treatment := diagnosis.Treatment
		scan.Treatment = &treatment
	} else {
		scan.Severity = models.SeverityNone
	}
	if weather != nil {
		scan.Weather = &models.ScanWeather{
			Temperature: weather.Temperature,
			Humidity:    weather.Humidity,
			Description: weather.Description,
		}
	}

	if s.photos != nil {
		photoURL, err := s.photos.UploadScanPhoto(ctx, userID, scan.ID.String(), req.ImageData, gemini.DetectImageMIMEType(req.ImageData))
		if err != nil {
			slog.Warn("failed to store scan photo", "user_id", userID, "scan_id", scan.ID, "error", err)
		} else {
			scan.PhotoURL = photoURL
		}
	}

	history, err := s.trendService.RecordScan(ctx, userID, scan)
	if err != nil {
		return nil, fmt.Errorf("failed to record scan: %w", err)
	}

	result := &ScanResult{
		Outcome:   models.OutcomeAnalyzed,
		Quality:   quality,
		Diagnosis: &diagnosis,
		Scan:      &scan,
		History:   history,
		Reminders: []models.Reminder{},
	}

	if !isHealthy && s.reminders != nil {
		s.scheduleFollowUps(ctx, userID, &scan, &diagnosis, result)
	}

	if !isHealthy && s.publisher != nil && req.Phone != "" {
		result.NotificationSent = s.notifyDiseaseDetected(ctx, userID, req.Phone, &scan, &diagnosis)
	}

	return result, nil
}

func (s *ScanService) scheduleFollowUps(ctx context.Context, userID string, scan *models.CropScan, diagnosis *models.CropDiagnosis, result *ScanResult) {
	disease := ""
	if scan.DetectedDisease != nil {
		disease = *scan.DetectedDisease
	}

	treatment, err := s.reminders.CreateTreatmentReminder(ctx, userID, scan.CropType, disease,
		diagnosis.Treatment.Immediate, treatmentDelayDays(scan.Severity), &scan.ID)
	if err != nil {
		slog.Warn("failed to create treatment reminder", "user_id", userID, "error", err)
	} else {
		result.Reminders = append(result.Reminders, *treatment)
	}

	rescan, err := s.reminders.CreateRescanReminder(ctx, userID, scan.CropType, scan.ID, defaultRescanDays)
	if err != nil {
		slog.Warn("failed to create rescan reminder", "user_id", userID, "error", err)
	} else {
		result.Reminders = append(result.Reminders, *rescan)
	}
}

func (s *ScanService) notifyDiseaseDetected(ctx context.Context, userID, phone string, scan *models.CropScan, diagnosis *models.CropDiagnosis) bool {
	disease := ""
	if scan.DetectedDisease != nil {
		disease = *scan.DetectedDisease
	}

	evt := event.NotificationEvent{
		ID:        uuid.NewString(),
		EventType: event.DiseaseDetected,
		UserID:    userID,
		Phone:     phone,
		Title:     fmt.Sprintf("%s detected on your %s", disease, scan.CropType),
		Message:   diagnosis.Treatment.Immediate,
		Additional: map[string]string{
			"disease":   disease,
			"crop_type": scan.CropType,
			"severity":  string(scan.Severity),
		},
	}

	if err := s.publisher.PublishEvent(ctx, evt); err != nil {
		slog.Warn("failed to publish disease notification", "user_id", userID, "error", err)
		return false
	}
	return true
}

// treatmentDelayDays maps severity to how soon the treatment should be
// applied. High severity means today.
func treatmentDelayDays(severity models.Severity) int {
	switch severity {
	case models.SeverityHigh:
		return 0
	case models.SeverityMedium:
		return 1
	default:
		return 2
	}
}
