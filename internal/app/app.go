package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"webhook-inbox-go/internal/config"
	"webhook-inbox-go/internal/database"
	"webhook-inbox-go/internal/handler"
	"webhook-inbox-go/internal/metrics"
	"webhook-inbox-go/internal/repository"
	"webhook-inbox-go/internal/router"
	"webhook-inbox-go/internal/scheduler"
	"webhook-inbox-go/internal/service"
	"webhook-inbox-go/internal/signature"
)

// Run initializes and starts the application
func Run() error {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "message",
		},
	})

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	level, _ := cfg.Log.LogLevel()
	log.SetLevel(level)

	log.Info("Starting Webhook Inbox Service")

	dbConn, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	repo := repository.New(dbConn)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	verifier := signature.NewVerifier(cfg.Webhook.Secret)
	if !verifier.Configured() {
		log.Warn("WEBHOOK_SECRET is not set; every webhook will be rejected")
	}

	var ingester service.Ingester = service.NewIngestionService(verifier, repo)
	ingester = service.NewInstrumentedIngestion(service.NewLoggingIngestion(ingester, log), m)
	querier := service.NewLoggingQuery(service.NewQueryService(repo), log)

	sched := scheduler.New(&cfg.Scheduler, repo, m)

	h := handler.NewHandlers(ingester, querier, repo, sched, reg, verifier.Configured())
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.SetupRouter(h, m, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sched.RunOnce(context.Background())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		log.Info("Shutting down server...")
	case err := <-serveErr:
		runErr = fmt.Errorf("HTTP server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	if sqlDB, err := dbConn.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Errorf("Failed to close database: %v", err)
		}
	}

	if runErr == nil {
		log.Info("Server stopped gracefully")
	}
	return runErr
}
