package natsjs

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// EnsureStream idempotently declares a JetStream stream covering subjects
// under subjectPrefix.> (e.g. "wallet.transaction.request.>" covers every
// partition suffix). Safe to call on every process start.
func EnsureStream(js nats.JetStreamContext, streamName, subjectPrefix string) error {
	_, err := js.StreamInfo(streamName)
	if err == nil {
		return nil
	}
	if err != nats.ErrStreamNotFound {
		return fmt.Errorf("stream info %s: %w", streamName, err)
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ".>", subjectPrefix},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("add stream %s: %w", streamName, err)
	}
	return nil
}
