package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/credofin/credit-engine/internal/config"
	"github.com/credofin/credit-engine/internal/repository"
	"github.com/credofin/credit-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	creditRepo := repository.NewCreditRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	creditService := service.NewCreditService(creditRepo, scheduleRepo, paymentRepo, redisClient, cfg, logger)
	schedulerService := service.NewSchedulerService(creditRepo, scheduleRepo, paymentRepo, creditService, logger)

	c := cron.New(cron.WithSeconds())
	if err := setupCronJobs(c, cfg, schedulerService, logger); err != nil {
		logger.Fatal("failed to schedule jobs", zap.Error(err))
	}

	c.Start()
	logger.Info("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, svc *service.SchedulerService, logger *zap.Logger) error {
	_, err := c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := svc.MarkOverdue(ctx, time.Now()); err != nil {
			logger.Error("overdue job failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	_, err = c.AddFunc(cfg.Scheduler.RecalcSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := svc.RunCheckpointRecalculations(ctx, time.Now()); err != nil {
			logger.Error("checkpoint recalculation job failed", zap.Error(err))
		}
	})
	return err
}
