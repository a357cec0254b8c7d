package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workforce-attendance/internal/config"
	"workforce-attendance/internal/db"
	"workforce-attendance/internal/email"
	"workforce-attendance/internal/handlers"
	"workforce-attendance/internal/jobs"
	"workforce-attendance/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JwtSecret == "" {
		log.Printf("warning: JWT_SECRET not set, every request acts as role %q", cfg.DefaultRole)
	}

	database, err := db.Open(cfg.DbDriver, cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if err := routes.Register(router, database, cfg); err != nil {
		log.Fatalf("routes error: %v", err)
	}

	sweep, err := jobs.StartExceptionSweep(database, cfg.ExceptionSweepCron, sweepSettings(database, cfg), digestNotifier(cfg))
	if err != nil {
		log.Fatalf("exception sweep error: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	<-sweep.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func sweepSettings(database *gorm.DB, cfg config.Config) jobs.SweepConfig {
	return func() (time.Duration, string) {
		settings, err := handlers.LoadAttendanceSettings(database, cfg)
		if err != nil {
			log.Printf("[EXCEPTION-SWEEP] settings error, using env: %v", err)
		}
		return settings.MaxShift(), settings.ExceptionReason
	}
}

func digestNotifier(cfg config.Config) jobs.Notifier {
	if !cfg.DigestEnabled() {
		return nil
	}
	smtpCfg := email.Config{
		Host:     cfg.SmtpHost,
		Port:     cfg.SmtpPort,
		Username: cfg.SmtpUser,
		Password: cfg.SmtpPass,
		From:     cfg.SmtpFrom,
	}
	return func(flagged []jobs.Flagged) error {
		lines := make([]string, 0, len(flagged))
		for _, item := range flagged {
			lines = append(lines, fmt.Sprintf("%s %s (%s)", item.AttendanceDate, item.EmployeeName, item.EmployeeCode))
		}
		return email.SendExceptionDigest(smtpCfg, cfg.ExceptionDigestTo, lines)
	}
}
