package gemini

import (
	"strings"

	"farmassist-backend/internal/models"
)

// ParseDiagnosis coerces the raw AI response into a CropDiagnosis. Every
// field is defensively defaulted: the model occasionally omits or mistypes
// fields and the caller must never crash on that.
func ParseDiagnosis(raw map[string]any) models.CropDiagnosis {
	diagnosis := models.CropDiagnosis{
		IsPlant:            getBool(raw, "is_plant", true),
		IsHealthy:          getBool(raw, "is_healthy", true),
		DetectedDisease:    getString(raw, "detected_disease", models.HealthyLabel),
		PlantType:          getString(raw, "plant_type", "unknown"),
		Confidence:         clampConfidence(getFloat(raw, "confidence", 0)),
		Observations:       getString(raw, "observations", ""),
		Severity:           parseSeverity(getString(raw, "severity", "")),
		EnvironmentalNotes: getString(raw, "environmental_factors", ""),
		FarmAdvice:         getString(raw, "farm_specific_advice", ""),
	}

	if treatment, ok := raw["treatment"].(map[string]any); ok {
		diagnosis.Treatment = models.TreatmentPlan{
			Immediate:  getString(treatment, "immediate", ""),
			Prevention: getString(treatment, "prevention", ""),
			FollowUp:   getString(treatment, "follow_up", ""),
		}
	}

	return diagnosis
}

func parseSeverity(value string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(models.SeverityLow):
		return models.SeverityLow
	case string(models.SeverityMedium):
		return models.SeverityMedium
	case string(models.SeverityHigh):
		return models.SeverityHigh
	default:
		return models.SeverityNone
	}
}

func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func getString(raw map[string]any, key, fallback string) string {
	if value, ok := raw[key].(string); ok {
		return value
	}
	return fallback
}

func getBool(raw map[string]any, key string, fallback bool) bool {
	if value, ok := raw[key].(bool); ok {
		return value
	}
	return fallback
}

func getFloat(raw map[string]any, key string, fallback float64) float64 {
	switch value := raw[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return fallback
	}
}
