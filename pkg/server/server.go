package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-fifo/pkg/common/http/handler"
	"github.com/huynhanx03/go-fifo/pkg/constraints"
	"github.com/huynhanx03/go-fifo/pkg/logger"
	"github.com/huynhanx03/go-fifo/pkg/settings"
	"github.com/huynhanx03/go-fifo/pkg/unique"
	"github.com/huynhanx03/go-fifo/pkg/utils"
)

const (
	defaultPort            = 8080
	defaultShutdownTimeout = 10 // seconds
)

// Server is the HTTP front of a Service.
type Server struct {
	cfg    *settings.Server
	engine *gin.Engine
	log    *zap.Logger
}

// New builds the gin engine and routes.
func New(cfg *settings.Server, svc *Service, log *zap.Logger) *Server {
	log = logger.OrNop(log)
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(log))
	Routes(engine, svc)

	return &Server{cfg: cfg, engine: engine, log: log}
}

// Routes registers the queue API on r.
func Routes(r gin.IRouter, svc *Service) {
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	queues := r.Group("/queues")
	queues.GET("", handler.Wrap(svc.List))
	queues.GET("/:name", handler.Wrap(svc.Len))
	queues.DELETE("/:name", handler.Wrap(svc.Clear))
	queues.GET("/:name/head", handler.Wrap(svc.Peek))
	queues.DELETE("/:name/head", handler.Wrap(svc.Dequeue))
	queues.POST("/:name/items", handler.Wrap(svc.Enqueue))
	queues.POST("/:name/items/batch", handler.Wrap(svc.EnqueueBatch))
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), utils.ToDuration(s.cfg.ShutdownTimeout))
	defer cancel()
	s.log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// requestID tags every request with an id, honouring one sent by the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constraints.HeaderRequestID)
		if id == "" {
			id = unique.NewID()
		}
		c.Set(constraints.ContextKeyRequestID, id)
		c.Header(constraints.HeaderRequestID, id)
		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(constraints.ContextKeyRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			log.Warn("request failed", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
