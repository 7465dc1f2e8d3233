package events

import (
	"context"
	"encoding/json"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of the kafka writer the producer needs, so tests can
// inject a recording fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Publisher is what services use to emit shipment lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// KafkaPublisher wraps a kafka writer as a Publisher.
type KafkaPublisher struct {
	writer Writer
}

// NewKafkaPublisher writes to the given brokers/topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &KafkaPublisher{writer: w}
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, skafka.Message{Key: []byte(key), Value: b})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, key string, value interface{}) error { return nil }
func (Nop) Close() error                                                     { return nil }
