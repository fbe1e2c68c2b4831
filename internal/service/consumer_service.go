package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-imagestudio-be/internal/dto"

	"ai-imagestudio-be/pkg/events"
	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process generation pipeline and fans each
// completed operation out to the external event bus.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishGenerationCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal generation message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Generation completed: user=%s operation=%s", payload.UserId, payload.Operation)

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "GENERATION_COMPLETED",
			Data: map[string]interface{}{
				"user_id":   payload.UserId,
				"image_id":  payload.ImageId,
				"operation": payload.Operation,
				"engine":    payload.Engine,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish GENERATION_COMPLETED event: %v", err)
			msg.Nack()
			return
		}
	}

	msg.Ack()
}
