package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nabin-thapa/gighub/internal/api/handlers"
	"github.com/nabin-thapa/gighub/internal/api/router"
	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/config"
	"github.com/nabin-thapa/gighub/internal/mailer"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/validator"
	"github.com/nabin-thapa/gighub/internal/repository/postgres"
	"github.com/nabin-thapa/gighub/internal/services"
	"github.com/nabin-thapa/gighub/migrations"
)

// @title GigHub API
// @version 1.0
// @description Freelance marketplace backend: subscriptions, plans, categories and course coupons.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.FS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	clk := clock.System{}
	mail := mailer.FromConfig(cfg.SMTP, log)
	val := validator.New()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	subsRepo := postgres.NewSubscriptionRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	otpRepo := postgres.NewOTPRepository(db)

	// Services
	otpSvc := services.NewOTPService(otpRepo, userRepo, mail, clk, log)
	userSvc := services.NewUserService(userRepo, otpSvc, cfg.Auth.BCryptCost, log)
	planSvc := services.NewPlanService(planRepo, clk, log)
	subsSvc := services.NewSubscriptionService(subsRepo, planSvc, clk, log)
	categorySvc := services.NewCategoryService(categoryRepo, userRepo, subsSvc, log)
	couponSvc := services.NewCouponService(couponRepo, subsSvc, clk, log)

	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db, log),
		Auth:         handlers.NewAuthHandler(userSvc, otpSvc, cfg, log, val),
		Plan:         handlers.NewPlanHandler(planSvc, log, val),
		Subscription: handlers.NewSubscriptionHandler(subsSvc, log, val),
		Category:     handlers.NewCategoryHandler(categorySvc, log, val),
		Coupon:       handlers.NewCouponHandler(couponSvc, log, val),
	}

	// Expiry sweep. Entitlement checks compare end_date on every read, so
	// the sweep only reconciles stored statuses for reporting.
	var sweeper *cron.Cron
	if cfg.Sweep.Enabled {
		sweeper = cron.New()
		_, err := sweeper.AddFunc(cfg.Sweep.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := subsSvc.SweepExpired(ctx); err != nil {
				log.ErrorWithErr(err, "Expiry sweep failed")
			}
		})
		if err != nil {
			log.Fatalf("Invalid sweep schedule %q: %v", cfg.Sweep.Schedule, err)
		}
		sweeper.Start()
		log.Infof("Expiry sweep scheduled: %s", cfg.Sweep.Schedule)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.ErrorWithErr(err, "Forced shutdown")
	}

	log.Info("Server stopped")
}
