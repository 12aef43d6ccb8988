package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/adapters/spreadsheet"
	"github.com/SscSPs/ifm_report_app/internal/core/services"
	"github.com/SscSPs/ifm_report_app/internal/handlers"
	"github.com/SscSPs/ifm_report_app/internal/middleware"
	"github.com/SscSPs/ifm_report_app/internal/platform/config"
	"github.com/SscSPs/ifm_report_app/internal/platform/metrics"
	"github.com/SscSPs/ifm_report_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// @title IFM Report API
// @version 1.0
// @description Generates intra-firm (IFM) reconciliation reports from BO extracts.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	layout, err := spreadsheet.LoadLayout(cfg.LayoutFile)
	if err != nil {
		logger.Error("Failed to load workbook layout", slog.String("file", cfg.LayoutFile), slog.String("error", err.Error()))
		os.Exit(1)
	}

	m := metrics.New()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	container := services.NewServiceContainer(cfg,
		spreadsheet.NewWorkbookReader(layout),
		spreadsheet.NewExporter(),
		services.WithReportObserver(m),
		services.WithAnalytics(posthogClient),
	)

	var reportLimiter *limiter.Limiter
	if cfg.ReportRateLimit != "" {
		reportLimiter, err = middleware.NewMemoryLimiter(cfg.ReportRateLimit)
		if err != nil {
			logger.Error("Invalid REPORT_RATE_LIMIT", slog.String("value", cfg.ReportRateLimit), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition", handlers.ReportIDHeader, middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(m.GinMiddleware(), middleware.PosthogMiddleware(posthogClient, handlers.ReportRoute))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, m, reportLimiter)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}

	logger.Info("Server exited")
}
