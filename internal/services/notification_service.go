package services

import (
	"log"

	"qwiik/internal/models"
	"qwiik/pkg/rabbitmq"
)

// NotificationService dispatches order confirmation messages through the
// notification queue. Dispatch is fire-and-forget: failures are logged, never
// surfaced to the user.
type NotificationService struct {
	mqClient *rabbitmq.Client
}

// NewNotificationService creates a new NotificationService. A nil client is
// allowed; notifications are then logged instead of published.
func NewNotificationService(mqClient *rabbitmq.Client) *NotificationService {
	return &NotificationService{
		mqClient: mqClient,
	}
}

// SendOrderConfirmation publishes an order confirmation for the given channel
// and contact.
func (s *NotificationService) SendOrderConfirmation(order *models.Order, channel, contact string) {
	payload := map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"total":   order.TotalAmount.StringFixed(2),
		"items":   len(order.Items),
		"channel": channel,
		"contact": contact,
	}

	if s.mqClient == nil {
		log.Printf("Notification (log only): order %s confirmed, %s to %s", order.ID, channel, contact)
		return
	}

	if err := s.mqClient.PublishOrderConfirmation(payload); err != nil {
		log.Printf("Warning: Failed to publish confirmation for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published confirmation for order %s", order.ID)
	}
}
