package gemini

import (
	"fmt"
	"strings"

	"farmassist-backend/internal/models"
)

const diagnosisPromptTemplate = `You are an agricultural plant pathologist analyzing a crop photo for a smallholder farmer.

## PRIMARY OBJECTIVE
Inspect the attached photo and diagnose the health of the plant.

## CRITICAL RULES
1. Output ONLY valid JSON matching the schema below - no markdown, no explanations, no preamble
2. Your response must start with { and end with }
3. If the photo does not show a plant at all, set "is_plant" to false and leave the other diagnosis fields at their defaults
4. The farmer reports the crop as "%s". If the plant in the photo is clearly a different species, report what you actually see in "plant_type"
5. "detected_disease" MUST be either "healthy" or one of the known diseases for this crop: %s
6. "confidence" is a number from 0 to 100
7. "severity" is one of: none, low, medium, high

## FARM CONTEXT
%s

## CURRENT WEATHER AT THE FARM
%s

## OUTPUT SCHEMA
{
  "is_plant": boolean,
  "is_healthy": boolean,
  "detected_disease": string,
  "plant_type": string,
  "confidence": number,
  "observations": string,
  "treatment": {
    "immediate": string,
    "prevention": string,
    "follow_up": string
  },
  "severity": string,
  "environmental_factors": string,
  "farm_specific_advice": string
}`

// BuildDiagnosisPrompt renders the crop diagnosis prompt with farm and
// weather context.
func BuildDiagnosisPrompt(cropType, farmNotes string, weather *models.WeatherSnapshot) string {
	diseases := models.DiseasesFor(cropType)
	diseaseList := "none on record"
	if len(diseases) > 0 {
		diseaseList = strings.Join(diseases, ", ")
	}

	if farmNotes == "" {
		farmNotes = "no additional notes provided"
	}

	weatherContext := "not available"
	if weather != nil {
		weatherContext = fmt.Sprintf("%.1f°C, %.0f%% humidity, %s",
			weather.Temperature, weather.Humidity, weather.Description)
	}

	return fmt.Sprintf(diagnosisPromptTemplate, cropType, diseaseList, farmNotes, weatherContext)
}
