package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/slotdesk/slotdesk/internal/api/router"
	"github.com/slotdesk/slotdesk/internal/appointments"
	appconfig "github.com/slotdesk/slotdesk/internal/config"
	httpmiddleware "github.com/slotdesk/slotdesk/internal/http/middleware"
	"github.com/slotdesk/slotdesk/internal/observability/metrics"
	"github.com/slotdesk/slotdesk/internal/postgres"
	"github.com/slotdesk/slotdesk/pkg/logging"
)

func main() {
	// Load .env file in development; environment variables win in prod.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting slotdesk API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	pool, err := postgres.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := appointments.NewRepository(pool)
	bookingMetrics := metrics.NewBookingMetrics(nil)
	svc := appointments.NewService(repo, scheduleFromConfig(cfg), logger, bookingMetrics, appointments.ServiceOptions{
		AllowStatusOverride: cfg.AllowStatusOverride,
	})
	handler := appointments.NewHandler(svc, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		Appointments:       handler,
		MetricsHandler:     promhttp.Handler(),
		ReadyCheck:         postgres.ReadyCheck(pool),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		limiter := httpmiddleware.NewRedisRateLimiter(rdb, cfg.CreateRateLimit, cfg.CreateRateWindow, logger)
		routerCfg.CreateLimiter = limiter.Middleware
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func scheduleFromConfig(cfg *appconfig.Config) appointments.Schedule {
	s := appointments.DefaultSchedule()
	s.OpenHour = cfg.OpenHour
	s.CloseHour = cfg.CloseHour
	s.BreakStartHour = cfg.BreakStartHour
	s.BreakEndHour = cfg.BreakEndHour
	s.WindowDays = cfg.BookingWindowDays
	return s
}
