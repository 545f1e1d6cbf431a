package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/api"
	"github.com/paw-chain/swapcore/app"
	"github.com/paw-chain/swapcore/app/health"
)

const flagInvariantPeriod = "invariant-check-period"

// StartCmd serves the REST API, the health endpoints and Prometheus metrics
// over the node state until interrupted.
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the query API, health checks and metrics",
		Long: `Open the node state and serve the REST API on api.address and the
health and Prometheus endpoints on metrics.address. The state database is held
open until the process receives SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := nodeConfig(cmd)
			if err != nil {
				return err
			}
			node, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer node.Close()

			logger := node.Logger()
			checker, err := health.NewChecker(logger, health.DefaultConfig(), node)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			period, _ := cmd.Flags().GetDuration(flagInvariantPeriod)
			if period > 0 {
				go checkInvariantsEvery(ctx, logger, node, period)
			}

			errCh := make(chan error, 2)
			go func() {
				errCh <- serveMetrics(ctx, logger, cfg.Metrics.Address, NewMetricsHandler(logger, checker))
			}()
			go func() {
				errCh <- api.NewServer(logger, node, api.ConfigFromApp(cfg.API)).Start(ctx)
			}()

			logger.Info("node started",
				"chain_id", node.ChainID(),
				"height", node.Header().Height,
				"api", cfg.API.Address,
				"metrics", cfg.Metrics.Address,
				"tracing", cfg.Telemetry.Enabled,
			)

			var firstErr error
			for i := 0; i < 2; i++ {
				if err := <-errCh; err != nil && firstErr == nil {
					firstErr = err
					stop()
				}
			}
			logger.Info("node stopped")
			return firstErr
		},
	}

	cmd.Flags().Duration(flagInvariantPeriod, 0, "Check state invariants at this interval (0 disables)")
	return cmd
}

// NewMetricsHandler routes /metrics and the health endpoints.
func NewMetricsHandler(logger log.Logger, checker *health.Checker) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	checker.RegisterRoutes(router)

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger}),
		handlers.PrintRecoveryStack(false),
	)(handlers.CompressHandler(router))
}

type recoveryLogger struct {
	logger log.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("metrics handler panic", "panic", v)
}

func serveMetrics(ctx context.Context, logger log.Logger, addr string, handler http.Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", "error", err)
		}
	}()

	logger.Info("metrics server listening", "address", listener.Addr().String())
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func checkInvariantsEvery(ctx context.Context, logger log.Logger, node *app.App, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if msg, broken := node.CheckInvariants(); broken {
				logger.Error("invariant broken", "height", node.Header().Height, "details", msg)
			}
		}
	}
}
