package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/threeprimes/internal/config"
	httpadapter "github.com/aretw0/threeprimes/pkg/adapters/http"
	mcpadapter "github.com/aretw0/threeprimes/pkg/adapters/mcp"
	"github.com/aretw0/threeprimes/pkg/adapters/memory"
	redisstore "github.com/aretw0/threeprimes/pkg/adapters/redis"
	"github.com/aretw0/threeprimes/pkg/jobs"
	"github.com/aretw0/threeprimes/pkg/observability"
	"github.com/aretw0/threeprimes/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// newJobStore opens the configured job store. The returned func releases it.
func newJobStore(ctx context.Context, cfg config.Config) (ports.JobStore, func() error, error) {
	switch cfg.Jobs.Store {
	case "redis":
		store := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisstore.WithTTL(cfg.Jobs.TTL))
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("connect redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), func() error { return nil }, nil
	}
}

// NewServeHandler wires the engine, metrics and job runner into the HTTP API.
// The returned func stops the runner and closes the store.
func NewServeHandler(ctx context.Context, cfg config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	doc, err := httpadapter.LoadSpec(ctx)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	engine := createEngine(cfg, 0, logger, metrics.Hooks())

	store, closeStore, err := newJobStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	runner := jobs.NewRunner(engine, store,
		jobs.WithTimeout(cfg.Jobs.Timeout),
		jobs.WithLogger(logger),
	)

	handler := httpadapter.NewHandler(engine,
		httpadapter.WithSpec(doc),
		httpadapter.WithJobs(runner),
		httpadapter.WithMetrics(reg),
		httpadapter.WithConcurrency(cfg.Concurrency),
		httpadapter.WithSearchTimeout(cfg.Search.Timeout),
		httpadapter.WithLogger(logger),
	)

	cleanup := func() {
		runner.Close()
		if err := closeStore(); err != nil {
			logger.Warn("closing job store", "error", err)
		}
	}
	return handler, cleanup, nil
}

// Serve runs the HTTP API on cfg.HTTP.Addr until ctx is cancelled.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	handler, cleanup, err := NewServeHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr, "jobs_store", cfg.Jobs.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	}
}

// MCPOptions configures the mcp command.
type MCPOptions struct {
	Transport string
	Addr      string
	BaseURL   string
}

// ServeMCP exposes the engine as MCP tools over stdio or SSE.
func ServeMCP(ctx context.Context, cfg config.Config, opts MCPOptions, logger *slog.Logger) error {
	engine := createEngine(cfg, 0, logger)
	srv := mcpadapter.NewServer(engine,
		mcpadapter.WithSearchTimeout(cfg.Search.Timeout),
		mcpadapter.WithLogger(logger),
	)

	switch opts.Transport {
	case "stdio":
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost" + opts.Addr
		}
		return srv.ServeSSE(ctx, opts.Addr, baseURL)
	default:
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", opts.Transport)
	}
}
