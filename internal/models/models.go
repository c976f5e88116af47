package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultFieldSection buckets scans that were not assigned to a named section.
const DefaultFieldSection = "default"

// MaxScansPerHistory caps how many scans a history retains. Oldest scans are
// trimmed first; aggregate counters always describe the retained scans.
const MaxScansPerHistory = 50

// TreatmentPlan is the advice attached to a diseased scan.
type TreatmentPlan struct {
	Immediate  string `json:"immediate"`
	Prevention string `json:"prevention"`
	FollowUp   string `json:"follow_up"`
}

// ScanWeather is the weather observed at scan time, embedded on the scan.
type ScanWeather struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
}

// CropScan is one completed disease-detection analysis of a crop image.
// Immutable once appended to a history.
type CropScan struct {
	ID              uuid.UUID      `json:"id"`
	Timestamp       int64          `json:"timestamp"`
	CropType        string         `json:"crop_type"`
	FieldSection    string         `json:"field_section"`
	IsHealthy       bool           `json:"is_healthy"`
	DetectedDisease *string        `json:"detected_disease,omitempty"`
	Severity        Severity       `json:"severity"`
	Confidence      float64        `json:"confidence"`
	Treatment       *TreatmentPlan `json:"treatment,omitempty"`
	Observations    string         `json:"observations,omitempty"`
	Weather         *ScanWeather   `json:"weather_conditions,omitempty"`
	PhotoURL        string         `json:"photo_url,omitempty"`
}

// DiseaseCount is one entry of the per-history disease frequency ranking.
type DiseaseCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CropHealthHistory is the aggregate root per (user, crop type, field section).
// Mutated only by the append-scan operation, which recomputes trend, risk and
// the disease ranking atomically with the append.
type CropHealthHistory struct {
	UserID         string         `json:"user_id"`
	CropType       string         `json:"crop_type"`
	FieldSection   string         `json:"field_section"`
	Scans          []CropScan     `json:"scans"`
	HealthTrend    int            `json:"health_trend"`
	RiskLevel      RiskLevel      `json:"risk_level"`
	TotalScans     int            `json:"total_scans"`
	HealthyScans   int            `json:"healthy_scans"`
	DiseasedScans  int            `json:"diseased_scans"`
	CommonDiseases []DiseaseCount `json:"common_diseases"`
	UpdatedAt      int64          `json:"updated_at"`
}

// CropKey identifies the history bucket for a crop type and field section.
func CropKey(cropType, fieldSection string) string {
	if fieldSection == "" {
		fieldSection = DefaultFieldSection
	}
	return fmt.Sprintf("%s_%s", cropType, fieldSection)
}

func (h *CropHealthHistory) CropKey() string {
	return CropKey(h.CropType, h.FieldSection)
}

// Reminder is a scheduled, user-facing action item. RelatedScanID is a weak
// reference kept for traceability only; a deleted scan must not break any
// reminder operation.
type Reminder struct {
	ID             uuid.UUID         `json:"id"`
	UserID         string            `json:"user_id"`
	Type           ReminderType      `json:"type"`
	Priority       ReminderPriority  `json:"priority"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	ScheduledFor   int64             `json:"scheduled_for"`
	CreatedAt      int64             `json:"created_at"`
	Completed      bool              `json:"completed"`
	ActionRequired bool              `json:"action_required"`
	RelatedCrop    string            `json:"related_crop,omitempty"`
	RelatedScanID  *uuid.UUID        `json:"related_scan_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// WeatherSnapshot is the normalized output of the weather provider.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	Pressure    float64 `json:"pressure"`
	Location    string  `json:"location"`
	FetchedAt   int64   `json:"fetched_at"`
}

// CropDiagnosis is the defensively coerced output of the vision-AI classifier.
type CropDiagnosis struct {
	IsPlant            bool          `json:"is_plant"`
	IsHealthy          bool          `json:"is_healthy"`
	DetectedDisease    string        `json:"detected_disease"`
	PlantType          string        `json:"plant_type"`
	Confidence         float64       `json:"confidence"`
	Observations       string        `json:"observations"`
	Treatment          TreatmentPlan `json:"treatment"`
	Severity           Severity      `json:"severity"`
	EnvironmentalNotes string        `json:"environmental_factors"`
	FarmAdvice         string        `json:"farm_specific_advice"`
}
