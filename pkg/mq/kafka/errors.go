package kafka

import "errors"

var (
	ErrNoBrokers      = errors.New("kafka: no brokers configured")
	ErrEmptyTopic     = errors.New("kafka: empty topic")
	ErrProducerFailed = errors.New("kafka: producer creation failed")
)
