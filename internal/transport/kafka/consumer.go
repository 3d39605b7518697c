package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/infrastructure/email"
	"github.com/rizanep/waqthecombackend1/pkg/kafka"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.uber.org/zap"
)

// Consumer turns notification events into emails. Handler errors are logged
// and the offset still advances, events are processed at most once.
type Consumer struct {
	sender  email.Sender
	topic   string
	groupID string
	logger  *zap.Logger
}

func NewConsumer(sender email.Sender, topic, groupID string, logger *zap.Logger) *Consumer {
	return &Consumer{
		sender:  sender,
		topic:   topic,
		groupID: groupID,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		c.groupID,
		[]string{c.topic},
		c.processMessage,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	type EventWrapper struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}

	var wrapper EventWrapper
	if err := json.Unmarshal(msg.Value, &wrapper); err != nil {
		mylogger.Error(ctx, c.logger, "Error unmarshalling wrapper", zap.Error(err))
		return nil
	}

	switch wrapper.Event {
	case "OrderPlaced":
		var event domain.OrderPlacedEvent
		if err := json.Unmarshal(wrapper.Payload, &event); err != nil {
			mylogger.Error(ctx, c.logger, "Error parsing order placed event", zap.Error(err))
			return nil
		}

		if event.Email == "" {
			return nil
		}

		if err := c.sender.SendOrderEmail(ctx, event.Email, "Your order is placed.", event.Message); err != nil {
			mylogger.Error(
				ctx,
				c.logger,
				"Error sending order placed email",
				zap.Int64("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	case "OrderStatusChanged":
		var event domain.OrderStatusChangedEvent
		if err := json.Unmarshal(wrapper.Payload, &event); err != nil {
			mylogger.Error(ctx, c.logger, "Error parsing status changed event", zap.Error(err))
			return nil
		}

		if event.Email == "" {
			return nil
		}

		if err := c.sender.SendOrderEmail(ctx, event.Email, "Your order status changed.", event.Message); err != nil {
			mylogger.Error(
				ctx,
				c.logger,
				"Error sending status changed email",
				zap.Int64("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	default:
		mylogger.Info(
			ctx,
			c.logger,
			"Ignored event type",
			zap.String("event", wrapper.Event),
		)
	}

	return nil
}
