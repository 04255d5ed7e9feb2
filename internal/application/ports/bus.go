package ports

import "context"

// BusProducer publishes a message to the durable log under subject (spec
// §4.3: producer is send_and_wait — Publish only returns once the broker
// has acknowledged the write).
type BusProducer interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

// MessageHandler processes one message body. Returning a non-nil error
// tells the consumer to skip the offset commit (redelivery) — used for the
// handler-timeout case and for a failed requeue/DLQ publish; every other
// outcome (success, requeue, DLQ) is a terminal decision the handler has
// already published downstream, so the consumer acks unconditionally after a
// nil return.
type MessageHandler func(ctx context.Context, payload []byte) error

// BusConsumer subscribes a durable, explicit-ack consumer to subject and
// invokes handler for each delivered message, one at a time, in order.
// Subscribe blocks until ctx is cancelled.
type BusConsumer interface {
	Subscribe(ctx context.Context, subject, durableName string, handler MessageHandler) error
}
