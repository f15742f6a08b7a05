package kafka

import (
	"fmt"

	"github.com/IBM/sarama"

	"github.com/huynhanx03/go-fifo/pkg/settings"
	"github.com/huynhanx03/go-fifo/pkg/utils"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 100 // millis
	defaultTimeout      = 10  // seconds
)

// NewConfig builds a sarama config for a synchronous, ordered producer.
func NewConfig(cfg *settings.Kafka) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	// A single in-flight request keeps retried messages from overtaking later ones.
	sc.Net.MaxOpenRequests = 1

	sc.Producer.Retry.Max = defaultMaxRetries
	if cfg.MaxRetries > 0 {
		sc.Producer.Retry.Max = cfg.MaxRetries
	}
	sc.Producer.Retry.Backoff = utils.ToDurationMs(defaultRetryBackoff)
	if cfg.RetryBackoff > 0 {
		sc.Producer.Retry.Backoff = utils.ToDurationMs(cfg.RetryBackoff)
	}

	timeout := utils.ToDuration(defaultTimeout)
	if cfg.Timeout > 0 {
		timeout = utils.ToDuration(cfg.Timeout)
	}
	sc.Producer.Timeout = timeout
	sc.Net.DialTimeout = timeout
	sc.Net.WriteTimeout = timeout
	sc.Net.ReadTimeout = timeout

	if cfg.FlushFrequency > 0 {
		sc.Producer.Flush.Frequency = utils.ToDurationMs(cfg.FlushFrequency)
	}
	if cfg.FlushBytes > 0 {
		sc.Producer.Flush.Bytes = cfg.FlushBytes
	}
	if cfg.MaxMessageBytes > 0 {
		sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	}
	return sc
}

// NewProducer connects a SyncProducer to the configured brokers.
func NewProducer(cfg *settings.Kafka) (sarama.SyncProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	p, err := sarama.NewSyncProducer(cfg.Brokers, NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProducerFailed, err)
	}
	return p, nil
}
