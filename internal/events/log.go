package events

import (
	"context"
	"log"
)

// LogSink writes lifecycle events to the process log. Used when no kafka
// brokers are configured.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, event Event) error {
	log.Printf("cart event %s (%s/%s) items=%d", event.Name, event.Instance, event.Guard, len(event.Items))
	return nil
}
