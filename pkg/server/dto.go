package server

import "encoding/json"

type QueueRequest struct {
	Name string `uri:"name" validate:"required,queuename"`
}

type EnqueueRequest struct {
	Name  string          `uri:"name" validate:"required,queuename"`
	Value json.RawMessage `json:"value" validate:"required"`
}

type EnqueueBatchRequest struct {
	Name   string            `uri:"name" validate:"required,queuename"`
	Values []json.RawMessage `json:"values" validate:"required,min=1,dive,required"`
}

type ListRequest struct{}

type LengthResponse struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
}

// ItemResponse reports the front item. Found is false for an empty queue.
type ItemResponse struct {
	Name  string          `json:"name"`
	Found bool            `json:"found"`
	Value json.RawMessage `json:"value,omitempty"`
}

type ListResponse struct {
	Queues []string `json:"queues"`
}

// Record is a dequeued item as exported to downstream consumers.
type Record struct {
	Queue string          `json:"queue"`
	Value json.RawMessage `json:"value"`
}
