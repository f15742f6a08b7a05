package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-fifo/pkg/common/apperr"
	"github.com/huynhanx03/go-fifo/pkg/logger"
)

const (
	serviceName     = "queue"
	defaultMaxBatch = 1000
)

// Exporter receives every item handed out by Dequeue.
type Exporter interface {
	Push(rec Record)
}

// Service implements the queue operations behind the HTTP routes.
type Service struct {
	backend  Backend
	exporter Exporter
	maxBatch int
	log      *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithExporter sends dequeued items to e.
func WithExporter(e Exporter) ServiceOption {
	return func(s *Service) { s.exporter = e }
}

// WithMaxBatch limits how many values one batch request may carry.
func WithMaxBatch(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxBatch = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.log = logger.OrNop(l) }
}

// NewService creates a Service over backend.
func NewService(backend Backend, opts ...ServiceOption) *Service {
	s := &Service{backend: backend, maxBatch: defaultMaxBatch, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func backendError(err error, msg string) error {
	return apperr.MapError(serviceName, err, apperr.CodeBackend, msg, http.StatusServiceUnavailable)
}

// Enqueue appends one value to the named queue and returns its new length.
func (s *Service) Enqueue(ctx context.Context, req *EnqueueRequest) (*LengthResponse, error) {
	return s.enqueue(ctx, req.Name, []json.RawMessage{req.Value})
}

// EnqueueBatch appends values in order. Batches over the configured limit are
// rejected with 413.
func (s *Service) EnqueueBatch(ctx context.Context, req *EnqueueBatchRequest) (*LengthResponse, error) {
	if len(req.Values) > s.maxBatch {
		return nil, apperr.NewError(serviceName, apperr.CodeValidation,
			fmt.Sprintf("batch of %d exceeds limit %d", len(req.Values), s.maxBatch),
			http.StatusRequestEntityTooLarge, nil)
	}
	return s.enqueue(ctx, req.Name, req.Values)
}

func (s *Service) enqueue(ctx context.Context, name string, values []json.RawMessage) (*LengthResponse, error) {
	if err := s.backend.Enqueue(ctx, name, values); err != nil {
		s.log.Error("enqueue failed", zap.String("queue", name), zap.Error(err))
		return nil, backendError(err, apperr.MsgEnqueueFailed)
	}
	return s.Len(ctx, &QueueRequest{Name: name})
}

// Dequeue removes the front value. An empty or unknown queue reports Found=false.
// Removed values are handed to the exporter, if any.
func (s *Service) Dequeue(ctx context.Context, req *QueueRequest) (*ItemResponse, error) {
	v, ok, err := s.backend.Dequeue(ctx, req.Name)
	if err != nil {
		s.log.Error("dequeue failed", zap.String("queue", req.Name), zap.Error(err))
		return nil, backendError(err, apperr.MsgDequeueFailed)
	}
	if ok && s.exporter != nil {
		s.exporter.Push(Record{Queue: req.Name, Value: v})
	}
	return &ItemResponse{Name: req.Name, Found: ok, Value: v}, nil
}

// Peek returns the front value without removing it.
func (s *Service) Peek(ctx context.Context, req *QueueRequest) (*ItemResponse, error) {
	v, ok, err := s.backend.Peek(ctx, req.Name)
	if err != nil {
		return nil, backendError(err, apperr.MsgPeekFailed)
	}
	return &ItemResponse{Name: req.Name, Found: ok, Value: v}, nil
}

// Len returns the number of values in the named queue.
func (s *Service) Len(ctx context.Context, req *QueueRequest) (*LengthResponse, error) {
	n, err := s.backend.Len(ctx, req.Name)
	if err != nil {
		return nil, backendError(err, apperr.MsgLenFailed)
	}
	return &LengthResponse{Name: req.Name, Length: n}, nil
}

// Clear drops the named queue and its contents.
func (s *Service) Clear(ctx context.Context, req *QueueRequest) (*LengthResponse, error) {
	if err := s.backend.Clear(ctx, req.Name); err != nil {
		return nil, backendError(err, apperr.MsgClearFailed)
	}
	return &LengthResponse{Name: req.Name}, nil
}

// List returns the queue names, sorted. Backends that cannot enumerate
// queues answer 501.
func (s *Service) List(ctx context.Context, _ *ListRequest) (*ListResponse, error) {
	lister, ok := s.backend.(Lister)
	if !ok {
		return nil, apperr.NewError(serviceName, apperr.CodeNotFound,
			"listing is not supported by this backend", http.StatusNotImplemented, nil)
	}
	names, err := lister.Names(ctx)
	if err != nil {
		return nil, backendError(err, apperr.MsgBackendError)
	}
	return &ListResponse{Queues: names}, nil
}
