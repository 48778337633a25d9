package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes keyed JSON messages to a single topic. The run
// queue between the gateway and the worker speaks through this interface.
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher parks unprocessable messages so the main topic can keep
// moving. The original payload is preserved verbatim alongside the reason.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter is the slice of kafka.Writer the producers need, kept as an
// interface so tests can substitute a fake writer.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
