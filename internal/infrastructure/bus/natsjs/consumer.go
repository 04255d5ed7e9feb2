package natsjs

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/pkg/logger"
)

// Compile-time check
var _ ports.BusConsumer = (*Consumer)(nil)

// Consumer subscribes a durable, explicit-ack pull consumer to a JetStream
// subject. It acks unconditionally after a nil handler return — every
// terminal outcome (success, requeue-with-incremented-retries, DLQ-route)
// is a decision the handler has already published downstream before
// returning; a non-nil return comes from the handler's own
// context-deadline-exceeded case or from a failed requeue/DLQ publish, where
// skipping the ack lets JetStream redeliver once AckWait elapses (the equivalent of the Python worker's
// `async_timeout.timeout(30.0)` → `continue`, which skips the offset
// commit).
type Consumer struct {
	js         nats.JetStreamContext
	maxDeliver int
	ackWait    time.Duration
	fetchWait  time.Duration
}

// NewConsumer создаёт Consumer с заданными пределами redelivery.
func NewConsumer(js nats.JetStreamContext, maxDeliver int, ackWait time.Duration) *Consumer {
	return &Consumer{js: js, maxDeliver: maxDeliver, ackWait: ackWait, fetchWait: 5 * time.Second}
}

// Subscribe pull-subscribes durableName on subject and runs handler for each
// message in arrival order, one at a time, until ctx is cancelled.
func (c *Consumer) Subscribe(ctx context.Context, subject, durableName string, handler ports.MessageHandler) error {
	sub, err := c.js.PullSubscribe(subject, durableName,
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.MaxDeliver(c.maxDeliver),
		nats.AckWait(c.ackWait),
	)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := sub.Fetch(1, nats.MaxWait(c.fetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			log.Error("jetstream fetch failed", "subject", subject, "durable", durableName, "error", err)
			continue
		}

		for _, msg := range msgs {
			if handlerErr := handler(ctx, msg.Data); handlerErr != nil {
				log.Warn("handler requested redelivery", "subject", subject, "error", handlerErr)
				continue
			}
			if ackErr := msg.Ack(); ackErr != nil {
				log.Error("ack failed", "subject", subject, "error", ackErr)
			}
		}
	}
}
