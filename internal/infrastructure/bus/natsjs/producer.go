// Package natsjs implements the application's bus ports on NATS JetStream,
// giving the durable, manually-committed log semantics spec §4.3 calls for
// without a second broker dependency the example corpus never shows.
package natsjs

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/wallethub/core/internal/application/ports"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
)

// Compile-time check
var _ ports.BusProducer = (*Producer)(nil)

// Producer publishes to a JetStream stream and waits for the broker's ack
// before returning, matching the teacher's send_and_wait producer contract.
type Producer struct {
	js nats.JetStreamContext
}

// NewProducer создаёт Producer поверх уже открытого JetStreamContext.
func NewProducer(js nats.JetStreamContext) *Producer {
	return &Producer{js: js}
}

func (p *Producer) Publish(ctx context.Context, subject string, payload []byte) error {
	_, err := p.js.Publish(subject, payload, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("%w: publish %s: %v", domainerrors.ErrBus, subject, err)
	}
	return nil
}

// PartitionSubject appends the `wallet_id mod partitions` suffix spec §5
// requires, giving one JetStream subject (and so one durable consumer) per
// partition while keeping delivery order intra-partition.
func PartitionSubject(prefix string, walletID int64, partitions int) string {
	if partitions <= 0 {
		partitions = 1
	}
	shard := walletID % int64(partitions)
	if shard < 0 {
		shard += int64(partitions)
	}
	return fmt.Sprintf("%s.%d", prefix, shard)
}
