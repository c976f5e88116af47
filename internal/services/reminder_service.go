package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"farmassist-backend/internal/models"
	"farmassist-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultRescanDays   = 7
	supplyUrgencyDays   = 3
	upcomingWindowDays  = 7
	reminderRetainDays  = 30
	secondsPerDay       = 24 * 60 * 60
	secondsPerHour      = 60 * 60
)

// Weather rule thresholds. Each rule fires independently; one reading can
// produce zero, one or several alerts.
const (
	fungalHumidityThreshold = 75.0
	fungalTempThreshold     = 20.0
	heatStressThreshold     = 35.0
	frostThreshold          = 5.0
)

// ReminderCounts is the aggregation returned for the reminder dashboard.
type ReminderCounts struct {
	Total   int `json:"total"`
	Urgent  int `json:"urgent"`
	High    int `json:"high"`
	Normal  int `json:"normal"`
	Low     int `json:"low"`
	Overdue int `json:"overdue"`
}

// ReminderService creates, queries and mutates scheduled action items.
// Mutators return a not_found error for unknown IDs instead of silently
// no-opping, so callers can tell "nothing to do" from "this ID never existed".
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
}

func NewReminderService(reminderRepo *repository.ReminderRepository) *ReminderService {
	return &ReminderService{reminderRepo: reminderRepo}
}

// ----------------------------------------------------------------------------
// Creation
// ----------------------------------------------------------------------------

// CreateTreatmentReminder schedules a treatment application. Same-day
// applications are urgent.
func (s *ReminderService) CreateTreatmentReminder(ctx context.Context, userID, cropType, disease, treatment string, daysUntilApplication int, scanID *uuid.UUID) (*models.Reminder, error) {
	priority := models.PriorityHigh
	if daysUntilApplication == 0 {
		priority = models.PriorityUrgent
	}

	now := time.Now().Unix()
	reminder := models.Reminder{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           models.ReminderTreatment,
		Priority:       priority,
		Title:          fmt.Sprintf("Apply treatment to %s", cropType),
		Message:        fmt.Sprintf("%s detected. %s", disease, treatment),
		ScheduledFor:   now + int64(daysUntilApplication)*secondsPerDay,
		CreatedAt:      now,
		ActionRequired: true,
		RelatedCrop:    cropType,
		RelatedScanID:  scanID,
		Metadata:       map[string]string{"disease": disease},
	}

	return s.persist(ctx, userID, reminder)
}

// CreateRescanReminder schedules a follow-up scan. daysUntilRescan defaults
// to 7 when not positive.
func (s *ReminderService) CreateRescanReminder(ctx context.Context, userID, cropType string, scanID uuid.UUID, daysUntilRescan int) (*models.Reminder, error) {
	if daysUntilRescan <= 0 {
		daysUntilRescan = defaultRescanDays
	}

	now := time.Now().Unix()
	reminder := models.Reminder{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           models.ReminderRescan,
		Priority:       models.PriorityNormal,
		Title:          fmt.Sprintf("Rescan your %s", cropType),
		Message:        fmt.Sprintf("Take a fresh photo of your %s to track how the treatment is working.", cropType),
		ScheduledFor:   now + int64(daysUntilRescan)*secondsPerDay,
		CreatedAt:      now,
		ActionRequired: true,
		RelatedCrop:    cropType,
		RelatedScanID:  &scanID,
	}

	return s.persist(ctx, userID, reminder)
}

// CreateWeatherAlert schedules an immediate weather warning.
func (s *ReminderService) CreateWeatherAlert(ctx context.Context, userID string, cropTypes []string, condition, recommendation string, priority models.ReminderPriority) (*models.Reminder, error) {
	if priority == "" {
		priority = models.PriorityHigh
	}

	now := time.Now().Unix()
	reminder := models.Reminder{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           models.ReminderWeather,
		Priority:       priority,
		Title:          condition,
		Message:        recommendation,
		ScheduledFor:   now,
		CreatedAt:      now,
		ActionRequired: true,
		RelatedCrop:    strings.Join(cropTypes, ", "),
	}

	return s.persist(ctx, userID, reminder)
}

// CreateSeasonalReminder schedules a seasonal activity.
func (s *ReminderService) CreateSeasonalReminder(ctx context.Context, userID, cropType, activity string, scheduledFor int64) (*models.Reminder, error) {
	now := time.Now().Unix()
	if scheduledFor == 0 {
		scheduledFor = now
	}

	reminder := models.Reminder{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         models.ReminderSeasonal,
		Priority:     models.PriorityNormal,
		Title:        fmt.Sprintf("Seasonal task for %s", cropType),
		Message:      activity,
		ScheduledFor: scheduledFor,
		CreatedAt:    now,
		RelatedCrop:  cropType,
	}

	return s.persist(ctx, userID, reminder)
}

// CreateSupplyReminder schedules a restock. Running out within three days
// raises the priority.
func (s *ReminderService) CreateSupplyReminder(ctx context.Context, userID, item string, daysRemaining int) (*models.Reminder, error) {
	priority := models.PriorityNormal
	if daysRemaining <= supplyUrgencyDays {
		priority = models.PriorityHigh
	}

	now := time.Now().Unix()
	reminder := models.Reminder{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           models.ReminderSupply,
		Priority:       priority,
		Title:          fmt.Sprintf("Restock %s", item),
		Message:        fmt.Sprintf("Your %s supply runs out in about %d days.", item, daysRemaining),
		ScheduledFor:   now + int64(daysRemaining)*secondsPerDay,
		CreatedAt:      now,
		ActionRequired: true,
		Metadata:       map[string]string{"item": item},
	}

	return s.persist(ctx, userID, reminder)
}

// CreateReminder stores a manually authored reminder after filling defaults.
func (s *ReminderService) CreateReminder(ctx context.Context, userID string, reminder models.Reminder) (*models.Reminder, error) {
	if reminder.Title == "" {
		return nil, fmt.Errorf("badrequest: title is required")
	}
	if reminder.Type == "" {
		reminder.Type = models.ReminderSeasonal
	}
	if reminder.Priority == "" {
		reminder.Priority = models.PriorityNormal
	}

	now := time.Now().Unix()
	reminder.ID = uuid.New()
	reminder.UserID = userID
	reminder.CreatedAt = now
	reminder.Completed = false
	if reminder.ScheduledFor == 0 {
		reminder.ScheduledFor = now
	}

	return s.persist(ctx, userID, reminder)
}

// GenerateWeatherBasedReminders evaluates the weather rule set for the user's
// crops and stores one alert per fired rule.
func (s *ReminderService) GenerateWeatherBasedReminders(ctx context.Context, userID string, weather models.WeatherSnapshot, userCrops []string) ([]models.Reminder, error) {
	created := []models.Reminder{}

	for _, alert := range weatherAlerts(weather) {
		reminder, err := s.CreateWeatherAlert(ctx, userID, userCrops, alert.condition, alert.recommendation, alert.priority)
		if err != nil {
			return created, err
		}
		created = append(created, *reminder)
	}

	slog.Info("generated weather-based reminders",
		"user_id", userID,
		"count", len(created),
		"temperature", weather.Temperature,
		"humidity", weather.Humidity)
	return created, nil
}

type weatherAlert struct {
	condition      string
	recommendation string
	priority       models.ReminderPriority
}

func weatherAlerts(weather models.WeatherSnapshot) []weatherAlert {
	alerts := []weatherAlert{}

	if weather.Humidity > fungalHumidityThreshold && weather.Temperature > fungalTempThreshold {
		alerts = append(alerts, weatherAlert{
			condition:      "High fungal disease risk",
			recommendation: "Warm humid conditions favor fungal diseases. Inspect leaves closely and consider a preventive fungicide.",
			priority:       models.PriorityHigh,
		})
	}

	if weather.Temperature > heatStressThreshold {
		alerts = append(alerts, weatherAlert{
			condition:      "Heat stress warning",
			recommendation: "Extreme heat expected. Water early in the morning and provide shade where possible.",
			priority:       models.PriorityUrgent,
		})
	}

	if weather.Temperature < frostThreshold {
		alerts = append(alerts, weatherAlert{
			condition:      "Frost warning",
			recommendation: "Temperatures near freezing. Cover sensitive crops overnight.",
			priority:       models.PriorityUrgent,
		})
	}

	return alerts
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

// GetActiveReminders returns incomplete reminders sorted ascending by
// schedule time.
func (s *ReminderService) GetActiveReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	reminders, err := s.reminderRepo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := []models.Reminder{}
	for _, reminder := range reminders {
		if !reminder.Completed {
			active = append(active, reminder)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].ScheduledFor < active[j].ScheduledFor
	})
	return active, nil
}

// GetOverdueReminders returns active reminders whose schedule time has passed.
func (s *ReminderService) GetOverdueReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	active, err := s.GetActiveReminders(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	overdue := []models.Reminder{}
	for _, reminder := range active {
		if reminder.ScheduledFor < now {
			overdue = append(overdue, reminder)
		}
	}
	return overdue, nil
}

// GetUpcomingReminders returns active reminders scheduled within the next
// seven days.
func (s *ReminderService) GetUpcomingReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	active, err := s.GetActiveReminders(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	horizon := now + upcomingWindowDays*secondsPerDay
	upcoming := []models.Reminder{}
	for _, reminder := range active {
		if reminder.ScheduledFor >= now && reminder.ScheduledFor <= horizon {
			upcoming = append(upcoming, reminder)
		}
	}
	return upcoming, nil
}

// GetReminderCounts aggregates active reminders by priority plus the overdue
// count.
func (s *ReminderService) GetReminderCounts(ctx context.Context, userID string) (*ReminderCounts, error) {
	active, err := s.GetActiveReminders(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	counts := &ReminderCounts{Total: len(active)}
	for _, reminder := range active {
		switch reminder.Priority {
		case models.PriorityUrgent:
			counts.Urgent++
		case models.PriorityHigh:
			counts.High++
		case models.PriorityNormal:
			counts.Normal++
		case models.PriorityLow:
			counts.Low++
		}
		if reminder.ScheduledFor < now {
			counts.Overdue++
		}
	}
	return counts, nil
}

// ----------------------------------------------------------------------------
// Mutators
// ----------------------------------------------------------------------------

// CompleteReminder marks a reminder done. Irreversible through this
// operation.
func (s *ReminderService) CompleteReminder(ctx context.Context, userID string, id uuid.UUID) error {
	_, err := s.reminderRepo.Update(ctx, userID, func(reminders []models.Reminder) ([]models.Reminder, error) {
		for i := range reminders {
			if reminders[i].ID == id {
				reminders[i].Completed = true
				return reminders, nil
			}
		}
		return nil, fmt.Errorf("not_found: reminder %s does not exist", id)
	})
	return err
}

// DeleteReminder removes a reminder permanently.
func (s *ReminderService) DeleteReminder(ctx context.Context, userID string, id uuid.UUID) error {
	_, err := s.reminderRepo.Update(ctx, userID, func(reminders []models.Reminder) ([]models.Reminder, error) {
		for i := range reminders {
			if reminders[i].ID == id {
				return append(reminders[:i], reminders[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("not_found: reminder %s does not exist", id)
	})
	return err
}

// SnoozeReminder pushes the schedule time forward by the given hours without
// touching completion state or priority.
func (s *ReminderService) SnoozeReminder(ctx context.Context, userID string, id uuid.UUID, hours int) error {
	if hours <= 0 {
		return fmt.Errorf("badrequest: snooze hours must be positive")
	}

	_, err := s.reminderRepo.Update(ctx, userID, func(reminders []models.Reminder) ([]models.Reminder, error) {
		for i := range reminders {
			if reminders[i].ID == id {
				reminders[i].ScheduledFor += int64(hours) * secondsPerHour
				return reminders, nil
			}
		}
		return nil, fmt.Errorf("not_found: reminder %s does not exist", id)
	})
	return err
}

// CleanOldReminders drops reminders that are completed and older than the
// retention window. Incomplete reminders are never auto-removed.
func (s *ReminderService) CleanOldReminders(ctx context.Context, userID string) (int, error) {
	removed := 0
	cutoff := time.Now().Unix() - reminderRetainDays*secondsPerDay

	_, err := s.reminderRepo.Update(ctx, userID, func(reminders []models.Reminder) ([]models.Reminder, error) {
		kept := reminders[:0]
		for _, reminder := range reminders {
			if reminder.Completed && reminder.CreatedAt < cutoff {
				removed++
				continue
			}
			kept = append(kept, reminder)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ListUsers returns every user id known to the reminder index, for the
// maintenance sweep.
func (s *ReminderService) ListUsers(ctx context.Context) ([]string, error) {
	return s.reminderRepo.ListUsers(ctx)
}

// WipeUserData deletes every reminder the user owns. Explicit user action
// only.
func (s *ReminderService) WipeUserData(ctx context.Context, userID string) error {
	return s.reminderRepo.DeleteAll(ctx, userID)
}

func (s *ReminderService) persist(ctx context.Context, userID string, reminder models.Reminder) (*models.Reminder, error) {
	_, err := s.reminderRepo.Update(ctx, userID, func(reminders []models.Reminder) ([]models.Reminder, error) {
		return append(reminders, reminder), nil
	})
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}
