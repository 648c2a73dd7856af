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

	"github.com/aretw0/motion"
	"github.com/aretw0/motion/internal/presentation/tui"
	httpAdapter "github.com/aretw0/motion/pkg/adapters/http"
	"github.com/aretw0/motion/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the motion engine in server mode, exposing sessions over a JSON API,
frame diffs over Server-Sent Events and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		lib, err := loadLibrary(cmd, "")
		if err != nil {
			return err
		}
		be, err := openBackend(readStoreFlags(cmd))
		if err != nil {
			return err
		}
		defer func() {
			if err := be.close(); err != nil {
				logger.Warn("failed to close store", "error", err)
			}
		}()

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics()
		if err := metrics.Register(registry); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}

		opts := []motion.Option{
			motion.WithLogger(logger),
			motion.WithLibrary(lib),
			motion.WithStore(be.store),
			motion.WithHooks(metrics.Hooks().Merge(observability.LogHooks(logger))),
		}
		if be.locker != nil {
			opts = append(opts, motion.WithLocker(be.locker))
		}
		engine := motion.New(opts...)

		handler, err := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithGatherer(registry),
		)
		if err != nil {
			return fmt.Errorf("failed to build handler: %w", err)
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engineCtx, cancelEngine := context.WithCancel(context.Background())
		engineDone := make(chan error, 1)
		go func() { engineDone <- engine.Run(engineCtx) }()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(cmd.ErrOrStderr(), motion.Version)
			tui.Status(cmd.ErrOrStderr(), "Listening on %s (store: %s)", srv.Addr, readStoreFlags(cmd).kind)
			serverErrors <- srv.ListenAndServe()
		}()

		var serveErr error
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				serveErr = fmt.Errorf("server error: %w", err)
			}
		case <-ctx.Done():
			logger.Info("shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("failed to close server", "error", err)
				}
			}
		}

		cancelEngine()
		if err := <-engineDone; err != nil && serveErr == nil {
			serveErr = err
		}
		logger.Info("motion server stopped")
		return serveErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	addStoreFlags(serveCmd)
}
