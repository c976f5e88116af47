package gemini

import (
	"testing"

	"farmassist-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseDiagnosis_FullResponse(t *testing.T) {
	raw := map[string]any{
		"is_plant":         true,
		"is_healthy":       false,
		"detected_disease": "Early Blight",
		"plant_type":       "tomato",
		"confidence":       87.5,
		"observations":     "Brown concentric rings on lower leaves",
		"severity":         "HIGH",
		"treatment": map[string]any{
			"immediate":  "Remove affected leaves and apply copper fungicide",
			"prevention": "Rotate crops and water at the base",
			"follow_up":  "Rescan in a week",
		},
		"environmental_factors": "Humid conditions accelerate spread",
		"farm_specific_advice":  "Prioritize the north rows",
	}

	diagnosis := ParseDiagnosis(raw)

	assert.True(t, diagnosis.IsPlant)
	assert.False(t, diagnosis.IsHealthy)
	assert.Equal(t, "Early Blight", diagnosis.DetectedDisease)
	assert.Equal(t, models.SeverityHigh, diagnosis.Severity)
	assert.Equal(t, 87.5, diagnosis.Confidence)
	assert.Equal(t, "Remove affected leaves and apply copper fungicide", diagnosis.Treatment.Immediate)
	assert.Equal(t, "Rescan in a week", diagnosis.Treatment.FollowUp)
}

func TestParseDiagnosis_MissingFieldsDefault(t *testing.T) {
	diagnosis := ParseDiagnosis(map[string]any{})

	assert.True(t, diagnosis.IsPlant)
	assert.True(t, diagnosis.IsHealthy)
	assert.Equal(t, models.HealthyLabel, diagnosis.DetectedDisease)
	assert.Equal(t, "unknown", diagnosis.PlantType)
	assert.Equal(t, models.SeverityNone, diagnosis.Severity)
	assert.Zero(t, diagnosis.Confidence)
	assert.Empty(t, diagnosis.Treatment.Immediate)
}

func TestParseDiagnosis_MistypedFieldsFallBack(t *testing.T) {
	raw := map[string]any{
		"is_plant":         "yes",
		"confidence":       "very",
		"severity":         42,
		"detected_disease": 7,
		"treatment":        "apply something",
	}

	diagnosis := ParseDiagnosis(raw)

	assert.True(t, diagnosis.IsPlant)
	assert.Zero(t, diagnosis.Confidence)
	assert.Equal(t, models.SeverityNone, diagnosis.Severity)
	assert.Equal(t, models.HealthyLabel, diagnosis.DetectedDisease)
	assert.Empty(t, diagnosis.Treatment.Immediate)
}

func TestParseDiagnosis_ConfidenceClamped(t *testing.T) {
	assert.Equal(t, 100.0, ParseDiagnosis(map[string]any{"confidence": 250.0}).Confidence)
	assert.Equal(t, 0.0, ParseDiagnosis(map[string]any{"confidence": -5.0}).Confidence)
}

func TestStripJSONFence(t *testing.T) {
	fenced := "```json\n{\"is_plant\": true}\n```"
	assert.Equal(t, `{"is_plant": true}`, stripJSONFence(fenced))
	assert.Equal(t, `{"is_plant": true}`, stripJSONFence(`{"is_plant": true}`))
}

func TestDetectImageMIMEType(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}

	assert.Equal(t, "image/png", DetectImageMIMEType(png))
	assert.Equal(t, "image/jpeg", DetectImageMIMEType(jpeg))
	assert.Equal(t, "image/jpeg", DetectImageMIMEType([]byte{0x00}))
}
