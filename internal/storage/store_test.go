package storage

import (
	"context"
	"testing"
	"time"

	"farmassist-backend/internal/models"
	"farmassist-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// PERSISTENCE ROUND-TRIPS
// ============================================================================

func TestMemoryStore_ReminderRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	scanID := uuid.New()
	reminder := models.Reminder{
		ID:             uuid.New(),
		UserID:         "farmer-1",
		Type:           models.ReminderTreatment,
		Priority:       models.PriorityUrgent,
		Title:          "Apply treatment to tomato",
		Message:        "Early Blight detected, apply copper fungicide",
		ScheduledFor:   time.Now().Unix(),
		CreatedAt:      time.Now().Unix(),
		ActionRequired: true,
		RelatedCrop:    "tomato",
		RelatedScanID:  &scanID,
		Metadata:       map[string]string{"disease": "Early Blight"},
	}

	blob, err := utils.SerializeModel(reminder)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, RemindersKey(reminder.UserID), blob))

	loaded, err := store.Get(ctx, RemindersKey(reminder.UserID))
	require.NoError(t, err)

	var restored models.Reminder
	require.NoError(t, utils.DeserializeModel(loaded, &restored))
	assert.Equal(t, reminder, restored, "round-trip must reproduce the reminder field for field")
}

func TestMemoryStore_HistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	disease := "Rice Blast"
	history := models.CropHealthHistory{
		UserID:       "farmer-2",
		CropType:     "rice",
		FieldSection: "north-paddy",
		Scans: []models.CropScan{
			{
				ID:              uuid.New(),
				Timestamp:       time.Now().Unix(),
				CropType:        "rice",
				FieldSection:    "north-paddy",
				IsHealthy:       false,
				DetectedDisease: &disease,
				Severity:        models.SeverityHigh,
				Confidence:      87.5,
				Treatment:       &models.TreatmentPlan{Immediate: "spray", Prevention: "rotate", FollowUp: "rescan"},
				Weather:         &models.ScanWeather{Temperature: 28, Humidity: 81, Description: "humid"},
			},
		},
		HealthTrend:    models.TrendDeclining,
		RiskLevel:      models.RiskHigh,
		TotalScans:     1,
		DiseasedScans:  1,
		CommonDiseases: []models.DiseaseCount{{Name: disease, Count: 1}},
		UpdatedAt:      time.Now().Unix(),
	}

	key := HistoryKey(history.UserID, history.CropKey())
	blob, err := utils.SerializeModel(&history)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, key, blob))

	loaded, err := store.Get(ctx, key)
	require.NoError(t, err)

	var restored models.CropHealthHistory
	require.NoError(t, utils.DeserializeModel(loaded, &restored))
	assert.Equal(t, history, restored)
}

func TestMemoryStore_MissingKeyReturnsNil(t *testing.T) {
	store := NewMemoryStore()

	blob, err := store.Get(context.Background(), "never_written")

	assert.NoError(t, err)
	assert.Nil(t, blob)
}

func TestMemoryStore_DeleteRemovesKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	blob, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, blob)
}

func TestKeyComposition(t *testing.T) {
	assert.Equal(t, "crop_history_u1_tomato_default", HistoryKey("u1", models.CropKey("tomato", "")))
	assert.Equal(t, "reminders_u1", RemindersKey("u1"))
	assert.Equal(t, "weather_cache_pune", WeatherCacheKey("  Pune "))
}
