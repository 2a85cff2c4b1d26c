package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/probe/backend/internal/api"
	"github.com/wonny/probe/backend/internal/api/handlers"
	"github.com/wonny/probe/backend/internal/flags"
	"github.com/wonny/probe/backend/internal/observability/metrics"
	"github.com/wonny/probe/backend/pkg/config"
	"github.com/wonny/probe/backend/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  GET  /metrics                - Prometheus metrics (METRICS_ENABLED)
  POST /upload                 - multipart "file" 업로드 후 플래그 계산
  POST /api/v1/flags/evaluate  - JSON envelope 본문으로 플래그 계산 (?explain=true)

Example:
  go run ./cmd/probe api
  go run ./cmd/probe api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default $PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig(func(c *config.Config) error {
		// Override port if flag is set
		if apiPort != "" {
			c.Port = apiPort
		}
		return c.ValidateServer()
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":      cfg.Port,
		"env":       cfg.Env,
		"metrics":   cfg.MetricsEnabled,
		"log_level": log.Level().String(),
	}).Info("Initializing API server")

	// 3. Metrics (optional)
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(api.ServiceName)
	}

	// 4. Engine + handler
	engine := flags.NewEngine(log, m)
	flagHandler := handlers.NewFlagHandler(engine, m, log, cfg.Upload.MaxBytes)

	// 5. Router + server
	router := api.NewRouter(cfg, flagHandler, m, log)
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	out := cmd.OutOrStdout()
	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", cfg.Port))
	fmt.Fprintln(out, "\nAvailable endpoints:")
	PrintList(out, []string{
		"GET  /health",
		"GET  /metrics",
		"POST /upload",
		"POST /api/v1/flags/evaluate",
	})
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a listen failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
