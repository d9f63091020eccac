package alert

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
)

const DefaultPublishTimeout = 5 * time.Second

// PubSubSink publishes alerts to a Google Pub/Sub topic and waits for the
// server ack, bounded by timeout.
type PubSubSink struct {
	topic   *pubsub.Topic
	timeout time.Duration
}

func NewPubSubSink(topic *pubsub.Topic, timeout time.Duration) *PubSubSink {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &PubSubSink{topic: topic, timeout: timeout}
}

func (s *PubSubSink) SendAlert(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := s.topic.Publish(ctx, &pubsub.Message{
		Data:       []byte(message),
		Attributes: map[string]string{"alert": "low_stock"},
	})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("publish alert to %s: %w", s.topic.ID(), err)
	}
	return nil
}

// Stop flushes pending messages.
func (s *PubSubSink) Stop() {
	s.topic.Stop()
}
