package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-fifo/pkg/codec"
	"github.com/huynhanx03/go-fifo/pkg/database/redis"
	"github.com/huynhanx03/go-fifo/pkg/logger"
	"github.com/huynhanx03/go-fifo/pkg/mq/batcher"
	"github.com/huynhanx03/go-fifo/pkg/mq/kafka"
	"github.com/huynhanx03/go-fifo/pkg/server"
	"github.com/huynhanx03/go-fifo/pkg/settings"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

type options struct {
	cfg         settings.Config
	snapshotDir string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&options{})
}

func newRootCmdWithOptions(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fifod",
		Short: "HTTP server for named FIFO queues.",
		Long: `fifod serves named first-in-first-out queues over HTTP.

Queues live in memory (optionally snapshotted to disk on shutdown) or in Redis.
Dequeued items can be exported to a Kafka topic in batches.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cfg.Server.Host, "host", "", "listen host")
	f.IntVar(&opts.cfg.Server.Port, "port", 8080, "listen port")
	f.StringVar(&opts.cfg.Server.Mode, "mode", "release", "gin mode: debug, release or test")
	f.IntVar(&opts.cfg.Server.ShutdownTimeout, "shutdown-timeout", 10, "graceful shutdown timeout in seconds")

	f.StringVar(&opts.cfg.Logger.LogLevel, "log-level", "info", "log level")
	f.StringVar(&opts.cfg.Logger.FileLogName, "log-file", "", "rotated log file (stdout only when empty)")

	f.StringVar(&opts.cfg.Queue.Backend, "backend", backendMemory, "queue backend: memory or redis")
	f.IntVar(&opts.cfg.Queue.Shards, "shards", 64, "registry shards for the memory backend")
	f.IntVar(&opts.cfg.Queue.MaxBatch, "max-batch", 1000, "max values per batch request")
	f.StringVar(&opts.snapshotDir, "snapshot-dir", "", "memory backend: restore from and save to this directory")

	f.StringVar(&opts.cfg.Redis.Host, "redis-host", "127.0.0.1", "redis host")
	f.IntVar(&opts.cfg.Redis.Port, "redis-port", 6379, "redis port")
	f.StringVar(&opts.cfg.Redis.Password, "redis-password", "", "redis password")
	f.IntVar(&opts.cfg.Redis.Database, "redis-db", 0, "redis database")
	f.StringVar(&opts.cfg.Redis.KeyPrefix, "redis-prefix", "fifo", "redis key prefix")

	f.StringSliceVar(&opts.cfg.Kafka.Brokers, "kafka-brokers", nil, "kafka brokers for exporting dequeued items")
	f.StringVar(&opts.cfg.Kafka.Topic, "kafka-topic", "", "kafka topic for exporting dequeued items")
	f.IntVar(&opts.cfg.Queue.BatchSize, "export-batch", 256, "export batch size")
	f.IntVar(&opts.cfg.Queue.FlushInterval, "export-interval", 200, "export flush interval in milliseconds")

	return cmd
}

func (o *options) validate() error {
	switch o.cfg.Queue.Backend {
	case backendMemory:
	case backendRedis:
		if o.snapshotDir != "" {
			return fmt.Errorf("--snapshot-dir is only supported with the memory backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", o.cfg.Queue.Backend)
	}
	if (o.cfg.Kafka.Topic == "") != (len(o.cfg.Kafka.Brokers) == 0) {
		return fmt.Errorf("--kafka-topic and --kafka-brokers must be set together")
	}
	return nil
}

func run(ctx context.Context, opts *options) error {
	cfg := &opts.cfg

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return err
	}
	defer log.Sync()

	backend, cleanup, err := newBackend(cfg, opts.snapshotDir, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var background []func(context.Context)
	svcOpts := []server.ServiceOption{server.WithLogger(log), server.WithMaxBatch(cfg.Queue.MaxBatch)}

	if cfg.Kafka.Topic != "" {
		producer, err := kafka.NewProducer(&cfg.Kafka)
		if err != nil {
			return err
		}
		pub, err := kafka.NewPublisher(producer, cfg.Kafka.Topic, codec.JSON[server.Record]{},
			kafka.WithKey(func(r server.Record) string { return r.Queue }))
		if err != nil {
			producer.Close()
			return err
		}
		defer pub.Close()

		exporter := batcher.New[server.Record](pub, batcher.Config{
			BatchSize:     cfg.Queue.BatchSize,
			FlushInterval: cfg.Queue.FlushInterval,
		}, log)
		background = append(background, exporter.Run)
		svcOpts = append(svcOpts, server.WithExporter(exporter))
		log.Info("exporting dequeued items", zap.String("topic", cfg.Kafka.Topic))
	}

	srv := server.New(&cfg.Server, server.NewService(backend, svcOpts...), log)
	return serve(ctx, srv.Run, background...)
}

// serve runs fn until it returns. The background tasks get their own context,
// cancelled only after fn has returned, so work handed to them while fn was
// shutting down is still processed.
func serve(ctx context.Context, fn func(context.Context) error, background ...func(context.Context)) error {
	bgCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	defer stop()

	var g errgroup.Group
	for _, task := range background {
		task := task
		g.Go(func() error {
			task(bgCtx)
			return nil
		})
	}

	err := fn(ctx)
	stop()
	_ = g.Wait()
	return err
}

// newBackend returns the configured backend and a function releasing it.
func newBackend(cfg *settings.Config, snapshotDir string, log *zap.Logger) (server.Backend, func(), error) {
	if cfg.Queue.Backend == backendRedis {
		engine, err := redis.NewConnection(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis backend", zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
		return server.NewRedisBackend(engine), engine.Close, nil
	}

	mem := server.NewMemoryBackend(cfg.Queue.Shards)
	if snapshotDir == "" {
		return mem, func() {}, nil
	}

	n, err := mem.Load(snapshotDir)
	if err != nil {
		return nil, nil, err
	}
	log.Info("restored queues", zap.Int("queues", n), zap.String("dir", snapshotDir))

	save := func() {
		if err := mem.Save(snapshotDir); err != nil {
			log.Error("snapshot failed", zap.Error(err))
			return
		}
		log.Info("queues saved", zap.String("dir", snapshotDir))
	}
	return mem, save, nil
}
