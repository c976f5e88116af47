package notify

import (
	"context"
	"fmt"

	"farmassist-backend/internal/event"
)

// DirectPublisher delivers notification events straight through the SMS
// gateway. Used when no message broker is available.
type DirectPublisher struct {
	phone *PhoneService
}

func NewDirectPublisher(phone *PhoneService) *DirectPublisher {
	return &DirectPublisher{phone: phone}
}

func (p *DirectPublisher) PublishEvent(ctx context.Context, evt event.NotificationEvent) error {
	if evt.Phone == "" {
		return fmt.Errorf("notification event %s has no phone number", evt.ID)
	}
	return p.phone.SendSMS(evt.Title, evt.Message, []string{evt.Phone})
}
