package main

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doganjib/internal/auth"
	"doganjib/internal/dashboard"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the staff kitchen dashboard",
	Long: `Serve the staff dashboard: a REST surface over the backend staff API,
a websocket stream of order-pipeline changes, and Prometheus metrics.

Requires a staff account; sign in with 'doganjib login' first.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if !client.Authenticated() {
		return fmt.Errorf("sign in first: doganjib login")
	}
	if token := store.AccessToken(); token != "" {
		claims, err := auth.DecodeToken(token)
		if err == nil && !claims.IsStaff() {
			return fmt.Errorf("the dashboard requires a staff account")
		}
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Dashboard.Addr
	}

	server := dashboard.NewServer(client, cfg.Dashboard.PollInterval, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if metricsAddr := cfg.Dashboard.MetricsAddr; metricsAddr != "" && metricsAddr != addr {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", server.MetricsHandler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics listener failed", zap.Error(err))
			}
		}()
		logger.Info("metrics listening", zap.String("addr", metricsAddr))
	}

	logger.Info("starting staff dashboard", zap.String("addr", addr))
	if err := server.Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("dashboard server failed: %w", err)
	}
	return nil
}
