package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/alfredjeanlab/flowlint/internal/config"
	"github.com/alfredjeanlab/flowlint/internal/events"
	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/registry"
	"github.com/alfredjeanlab/flowlint/internal/server"
	"github.com/alfredjeanlab/flowlint/internal/store"
	"github.com/alfredjeanlab/flowlint/internal/store/memory"
	"github.com/alfredjeanlab/flowlint/internal/store/postgres"
	lintsync "github.com/alfredjeanlab/flowlint/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the flowlint HTTP and gRPC server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Build the linter.
		linter, err := buildLinter(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		// Open the report store.
		var reports store.ReportStore
		if cfg.ReportsEnabled() {
			pg, err := postgres.New(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			reports = pg
			logger.Info("reports persisted to postgres")
		} else {
			reports = memory.New(0)
			logger.Info("reports kept in memory (FLOWLINT_DATABASE_URL not set)", "capacity", memory.DefaultCapacity)
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL,
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					logger.Warn("nats disconnected", "err", err)
				}),
				nats.ReconnectHandler(func(nc *nats.Conn) {
					logger.Info("nats reconnected", "url", nc.ConnectedUrl())
				}),
			)
			if err != nil {
				reports.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (FLOWLINT_NATS_URL not set)")
		}

		// Create server components.
		lintServer := server.NewLintServer(linter,
			server.WithStore(reports),
			server.WithPublisher(publisher),
			server.WithLogger(logger),
		)
		grpcServer, healthServer := server.NewGRPCServer(cfg.AuthToken)

		// Start gRPC listener.
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			publisher.Close()
			reports.Close()
			return err
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           lintServer.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start export scheduler if any destinations are configured.
		scheduler := startExport(cfg, reports, publisher, logger)

		logger.Info("flowlint server started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
			"node_types", linter.Registry().Len(),
			"mode", linter.Mode(),
		)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("export scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := reports.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// buildLinter loads the configured registry and applies the linter settings.
func buildLinter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*lint.Linter, error) {
	reg, err := registry.Load(ctx, cfg.Registry, registry.S3Options{
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return nil, err
	}
	mode, err := lint.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	opts := []lint.Option{lint.WithMode(mode), lint.WithLogger(logger)}
	if cfg.StrictOutputs {
		opts = append(opts, lint.WithStrictOutputs())
	}
	if cfg.StrictEmpty {
		opts = append(opts, lint.WithStrictEmptyInputs())
	}
	return lint.New(reg, opts...), nil
}

// startExport starts the export scheduler, or returns nil when export is
// disabled or no destination could be created.
func startExport(cfg *config.Config, reports store.ReportStore, publisher events.Publisher, logger *slog.Logger) *lintsync.Scheduler {
	if cfg.ExportInterval <= 0 {
		return nil
	}
	var dests []lintsync.Destination

	if cfg.ExportBucket != "" {
		s3Dest, err := lintsync.NewS3Destination(
			context.Background(),
			cfg.ExportBucket,
			cfg.ExportKey,
			cfg.S3Region,
			cfg.S3Endpoint,
		)
		if err != nil {
			logger.Error("failed to create S3 export destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("export S3 destination enabled", "bucket", cfg.ExportBucket, "key", cfg.ExportKey)
		}
	}

	if cfg.ExportFile != "" {
		dests = append(dests, lintsync.NewFileDestination(cfg.ExportFile))
		logger.Info("export file destination enabled", "path", cfg.ExportFile)
	}

	if len(dests) == 0 {
		return nil
	}
	scheduler := lintsync.NewScheduler(reports, dests, cfg.ExportInterval, logger).WithPublisher(publisher)
	scheduler.Start()
	logger.Info("export scheduler started", "interval", cfg.ExportInterval)
	return scheduler
}
