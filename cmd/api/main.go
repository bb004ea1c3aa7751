package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Dan9191/cashflow-forecaster/internal/config"
	"github.com/Dan9191/cashflow-forecaster/internal/handler"
	"github.com/Dan9191/cashflow-forecaster/internal/middleware"
	"github.com/Dan9191/cashflow-forecaster/internal/repository"
	"github.com/Dan9191/cashflow-forecaster/internal/scheduler"
	"github.com/Dan9191/cashflow-forecaster/internal/service"
	"github.com/Dan9191/cashflow-forecaster/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc, logger)
	mailer := email.NewSender(cfg, logger)

	// Low balance alerts
	sched := scheduler.New(logger)
	if err := sched.AddJob(cfg.AlertSchedule, scheduler.NewAlertJob(repo, svc, mailer, cfg, logger)); err != nil {
		logger.Fatalf("Failed to schedule alerts: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	h.Routes(r, middleware.AuthMiddleware(cfg))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
