package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/cloud-doctor/cmd/mcp/tools"
	"github.com/elC0mpa/cloud-doctor/service/bootstrap"
	"github.com/elC0mpa/cloud-doctor/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	// stdout carries the protocol
	logger := utils.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	defaults, err := cfg.Defaults()
	if err != nil {
		return err
	}

	rt, err := bootstrap.Build(ctx, cfg.Config, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Close(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("shutdown")
		}
	}()

	if cfg.HasMetrics() {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(rt), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server stopped")
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
	}

	s := server.NewMCPServer(
		serverName,
		bootstrap.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	)

	handlers := tools.NewHandlers(rt.Orchestrator, rt.Store, rt.Verifier, defaults)
	tools.RegisterRunTools(s, handlers)

	return server.ServeStdio(s)
}

func metricsMux(rt *bootstrap.Runtime) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rt.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
