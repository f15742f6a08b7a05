package kafka

import (
	"github.com/IBM/sarama"
	"github.com/pkg/errors"

	"github.com/huynhanx03/go-fifo/pkg/codec"
	"github.com/huynhanx03/go-fifo/pkg/mq/batcher"
)

// Publisher sends batches of items to a Kafka topic. Messages of one batch are
// sent in order; items sharing a key land on one partition and keep that order.
type Publisher[T any] struct {
	producer sarama.SyncProducer
	topic    string
	codec    codec.Codec[T]
	key      func(T) string
}

var _ batcher.Consumer[int] = (*Publisher[int])(nil)

// Option configures a Publisher.
type Option[T any] func(*Publisher[T])

// WithKey sets the function deriving the message key from an item.
func WithKey[T any](fn func(T) string) Option[T] {
	return func(p *Publisher[T]) { p.key = fn }
}

// NewPublisher creates a Publisher writing to topic.
func NewPublisher[T any](producer sarama.SyncProducer, topic string, c codec.Codec[T], opts ...Option[T]) (*Publisher[T], error) {
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	p := &Publisher[T]{producer: producer, topic: topic, codec: c}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Consume implements batcher.Consumer.
func (p *Publisher[T]) Consume(batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	msgs := make([]*sarama.ProducerMessage, len(batch))
	for i, item := range batch {
		data, err := p.codec.Marshal(item)
		if err != nil {
			return errors.Wrapf(err, "kafka: encode item %d", i)
		}

		msg := &sarama.ProducerMessage{Topic: p.topic, Value: sarama.ByteEncoder(data)}
		if p.key != nil {
			msg.Key = sarama.StringEncoder(p.key(item))
		}
		msgs[i] = msg
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		return errors.Wrap(err, "kafka: send batch")
	}
	return nil
}

// Close closes the underlying producer.
func (p *Publisher[T]) Close() error {
	return p.producer.Close()
}
