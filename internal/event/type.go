package event

const NotificationQueue string = "farm_notification_events"

type NotificationEvent struct {
	ID         string                `json:"id"`
	EventType  NotificationEventType `json:"event_type"`
	UserID     string                `json:"user_id"`
	Phone      string                `json:"phone,omitempty"`
	Title      string                `json:"title"`
	Message    string                `json:"message"`
	Additional map[string]string     `json:"additional,omitempty"`
}

type NotificationEventType string

const (
	DiseaseDetected NotificationEventType = "disease_detected"
	ReminderDue     NotificationEventType = "reminder_due"
	WeatherAlert    NotificationEventType = "weather_alert"
)
