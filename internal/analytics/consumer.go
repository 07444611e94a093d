package analytics

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Consumer drains the link event topics and forwards each event to the
// sink. Malformed or unsaveable messages are nacked for redelivery.
type Consumer struct {
	subscriber message.Subscriber
	sink       Sink
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewConsumer creates a consumer over all three link topics.
func NewConsumer(subscriber message.Subscriber, sink Sink, logger *zap.Logger) *Consumer {
	return &Consumer{
		subscriber: subscriber,
		sink:       sink,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start subscribes to the topics and begins consuming.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	created, err := c.subscriber.Subscribe(ctx, TopicLinkCreated)
	if err != nil {
		return err
	}

	clicked, err := c.subscriber.Subscribe(ctx, TopicLinkClicked)
	if err != nil {
		return err
	}

	deleted, err := c.subscriber.Subscribe(ctx, TopicLinkDeleted)
	if err != nil {
		return err
	}

	go c.consumeLoop(ctx, created, clicked, deleted)

	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context, created, clicked, deleted <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-created:
			if !ok {
				return
			}

			handle(ctx, c, msg, TopicLinkCreated, c.sink.LinkCreated)
		case msg, ok := <-clicked:
			if !ok {
				return
			}

			handle(ctx, c, msg, TopicLinkClicked, c.sink.LinkClicked)
		case msg, ok := <-deleted:
			if !ok {
				return
			}

			handle(ctx, c, msg, TopicLinkDeleted, c.sink.LinkDeleted)
		}
	}
}

func handle[T any](ctx context.Context, c *Consumer, msg *message.Message, topic string, save func(context.Context, *T) error) {
	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("failed to unmarshal event",
			zap.String("topic", topic),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	if err := save(ctx, &event); err != nil {
		c.logger.Error("failed to process event",
			zap.String("topic", topic),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	msg.Ack()
}

// Shutdown stops consuming and waits for the loop to drain.
func (c *Consumer) Shutdown() error {
	if c.cancel != nil {
		c.cancel()
	}

	<-c.done

	return nil
}
