package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huynhanx03/go-fifo/pkg/mq/batcher"
)

func TestRootCmd_Defaults(t *testing.T) {
	cmd := newRootCmd()

	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	backend, err := cmd.Flags().GetString("backend")
	require.NoError(t, err)
	assert.Equal(t, backendMemory, backend)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"memory_ok", []string{"--backend", "memory"}, ""},
		{"redis_ok", []string{"--backend", "redis"}, ""},
		{"unknown_backend", []string{"--backend", "etcd"}, "unknown backend"},
		{"snapshot_with_redis", []string{"--backend", "redis", "--snapshot-dir", "/tmp/x"}, "only supported"},
		{"topic_without_brokers", []string{"--kafka-topic", "t"}, "must be set together"},
		{"kafka_ok", []string{"--kafka-topic", "t", "--kafka-brokers", "a:9092,b:9092"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &options{}
			cmd := newRootCmdWithOptions(opts)
			require.NoError(t, cmd.Flags().Parse(tt.args))

			err := opts.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServe_ExportsItemsDequeuedDuringShutdown(t *testing.T) {
	var (
		mu  sync.Mutex
		got []int
	)
	exporter := batcher.New[int](batcher.ConsumerFunc[int](func(batch []int) error {
		mu.Lock()
		got = append(got, batch...)
		mu.Unlock()
		return nil
	}), batcher.Config{BatchSize: 100, FlushInterval: 1000}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The server finishes an in-flight dequeue after its context is done.
	err := serve(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		exporter.Push(1)
		exporter.Push(2)
		return nil
	}, exporter.Run)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, got)
	assert.Zero(t, exporter.Pending())
}

func TestServe_ReturnsServerError(t *testing.T) {
	boom := errors.New("listen failed")
	ran := make(chan struct{})

	err := serve(context.Background(), func(context.Context) error { return boom },
		func(ctx context.Context) {
			<-ctx.Done()
			close(ran)
		})

	assert.ErrorIs(t, err, boom)
	select {
	case <-ran:
	default:
		t.Error("background task was not stopped before serve returned")
	}
}
