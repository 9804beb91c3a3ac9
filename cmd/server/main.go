package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"trend-orchestrator/internal/adapter/trend_http"
	"trend-orchestrator/internal/di"
	"trend-orchestrator/internal/infra/config"
	"trend-orchestrator/internal/infra/logger"
	"trend-orchestrator/internal/infra/metrics"
)

func main() {
	// 1. Load .env if present, then config
	_ = godotenv.Load()
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.NewWithOTel(cfg.EnableOTel)
	slog.SetDefault(log)

	// 3. Wire components
	components, err := di.NewApplicationComponents(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	// 4. Start Worker
	components.Worker.Start()
	defer func() {
		log.Info("Stopping worker...")
		components.Worker.Stop()
	}()

	// 5. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// 6. Register Handlers
	handler := trend_http.NewHandler(components.AnalyzeUsecase, components.JobStore)
	handler.RegisterRoutes(e)

	// 7. Metrics
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(components.Registry)))

	// 8. Health Checks
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	// 9. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
