// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-studybot-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// LinkNotificationDelivery pushes a real-time update to a user's open
// connections. Implemented by the WebSocket Hub.
type LinkNotificationDelivery interface {
	Send(userID string, envelope interface{})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the link-classified topic and notifies the
// user's connected clients.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	delivery  LinkNotificationDelivery
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	delivery LinkNotificationDelivery,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		delivery:  delivery,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PublishLinkClassifiedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Notifying user %s: link classified as %s", payload.UserId, payload.Subject)

	cs.delivery.Send(payload.UserId, map[string]interface{}{
		"type": "notification",
		"data": map[string]interface{}{
			"title":   "Material saved",
			"message": fmt.Sprintf("Classified as %s. Total saved: %d", payload.Subject, payload.Total),
			"subject": payload.Subject,
			"link":    payload.Link,
		},
	})

	msg.Ack()
}
