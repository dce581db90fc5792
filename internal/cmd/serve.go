package cmd

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nextgenai/nextgen/internal/ailink"
	"github.com/nextgenai/nextgen/internal/ailink/driver"
	"github.com/nextgenai/nextgen/internal/ailink/prompt"
	"github.com/nextgenai/nextgen/internal/config"
	errwrap "github.com/nextgenai/nextgen/internal/errors"
	"github.com/nextgenai/nextgen/internal/metrics"
	"github.com/nextgenai/nextgen/internal/observability"
	"github.com/nextgenai/nextgen/internal/server"
	"github.com/nextgenai/nextgen/internal/server/handlers"
	"github.com/nextgenai/nextgen/internal/server/middleware"
	"github.com/nextgenai/nextgen/internal/studio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the generation proxy",
	Long: `Start the HTTP generation proxy with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (log level and gateway settings need a restart)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "invalid configuration")
		}

		namespace := cfg.Metrics.Namespace
		if namespace == "" {
			namespace = config.AppName
		}
		observability.InitServerLogger(observability.ServerLogOptions{
			Service:     config.AppName,
			Level:       cfg.Logging.Level,
			Environment: cfg.Logging.Environment,
			Namespace:   namespace,
		})
		logger := observability.ServerLogger

		if cfg.Metrics.Enabled {
			if err := observability.InitMetrics(config.AppName, cfg.Metrics.Port, namespace); err != nil {
				logger.Error("Failed to initialize metrics", zap.Error(err))
				return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
			}
		}

		svc, err := newStudioService(cfg, logger)
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "generation service setup failed")
		}

		handlers.SetAppName(config.AppName)
		handlers.SetModel(cfg.AILink.ModelOr(""))

		health := handlers.NewHealthManager(versionInfo.Version)
		if cfg.Health.Enabled {
			registerHealthChecks(health, cfg, svc)
		}

		srv := server.New(server.Options{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			Generator:      svc,
			Health:         health,
			ClientKey:      cfg.Server.ClientKey,
			AdminToken:     cfg.Server.AdminToken,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		})

		logger.Info("Initializing server",
			zap.String("service", config.AppName),
			zap.String("namespace", namespace),
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("gateway_configured", svc.Configured()),
			zap.Bool("client_key_required", cfg.Server.ClientKey != ""),
			zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
			zap.Bool("gateway_tracing", driver.TracingEnabled()),
			zap.Int("metrics_port", observability.GetMetricsPort()))

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Shutdown handlers run LIFO: the server stops first, the logger flushes last.
		signals.OnShutdown(func(ctx context.Context) error {
			logger.Info("Flushing logger...")
			if cfg.Metrics.Enabled {
				if err := observability.ShutdownMetrics(); err != nil {
					logger.Warn("Metrics exporter shutdown failed", zap.Error(err))
				}
			}
			observability.SyncLoggers()
			return nil
		})

		signals.OnShutdown(func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}
			logger.Info("HTTP server stopped gracefully")
			return nil
		})

		signals.OnReload(func(ctx context.Context) error {
			logger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					logger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				logger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}
			if _, err := loadConfig(); err != nil {
				logger.Error("Reloaded config is invalid", zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			logger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))
			return nil
		})

		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
		}

		metrics.SetServerStartTime(time.Now().Unix())

		errChan := make(chan error, 1)
		go func() {
			logger.Info("Starting HTTP server...",
				zap.String("host", cfg.Server.Host),
				zap.Int("port", cfg.Server.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				logger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}
		return nil
	},
}

// newStudioService builds the generation service. A missing gateway key is
// not fatal: the proxy still starts and answers generation requests with a
// configuration error.
func newStudioService(cfg *config.Config, logger *logging.Logger) (*studio.Service, error) {
	var drv driver.Driver
	d, err := ailink.NewDriver(cfg.AILink, nil)
	switch {
	case errors.Is(err, ailink.ErrNotConfigured):
		if logger != nil {
			logger.Warn("AI gateway key is not set; generation requests will fail",
				zap.String("env", config.EnvPrefix+"_AILINK_API_KEY"))
		}
	case err != nil:
		return nil, err
	default:
		drv = d
	}

	var prompts prompt.Registry
	if dir := strings.TrimSpace(cfg.AILink.PromptsDir); dir != "" {
		reg, err := prompt.NewRegistryWithOverrides(dir)
		if err != nil {
			return nil, err
		}
		prompts = reg
	}

	opts := studio.Options{
		Driver:    drv,
		Prompts:   prompts,
		Config:    cfg.AILink,
		Logger:    logger,
		RequestID: middleware.GetRequestID,
	}
	return studio.NewService(opts)
}

func registerHealthChecks(hm *handlers.HealthManager, cfg *config.Config, svc *studio.Service) {
	hm.RegisterChecker("ai_gateway", handlers.CheckerFunc(func(ctx context.Context) error {
		if !svc.Configured() {
			return &handlers.DegradedError{Reason: "ai gateway api key is not configured"}
		}
		return nil
	}))
	hm.RegisterChecker("prompt_registry", handlers.CheckerFunc(func(ctx context.Context) error {
		return svc.PromptReady()
	}))
	if cfg.Metrics.Enabled {
		hm.RegisterChecker("telemetry", handlers.CheckerFunc(func(ctx context.Context) error {
			if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
				return errwrap.NewInternalError("telemetry system not initialized")
			}
			return nil
		}))
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", config.DefaultServerPort, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
