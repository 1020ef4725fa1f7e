package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/credofin/credit-engine/internal/config"
	"github.com/credofin/credit-engine/internal/handler"
	"github.com/credofin/credit-engine/internal/repository"
	"github.com/credofin/credit-engine/internal/service"
	"github.com/credofin/credit-engine/pkg/response"
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

	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	creditRepo := repository.NewCreditRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	creditService := service.NewCreditService(creditRepo, scheduleRepo, paymentRepo, redisClient, cfg, logger)
	creditHandler := handler.NewCreditHandler(creditService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(creditHandler, healthHandler, logger)

	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(creditHandler *handler.CreditHandler, healthHandler *handler.HealthHandler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/credits", creditHandler.CreateCredit).Methods("POST")
	api.HandleFunc("/credits/{creditId}/schedule", creditHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/credits/{creditId}/rates", creditHandler.AddRate).Methods("POST")
	api.HandleFunc("/credits/{creditId}/adjustments", creditHandler.AddAdjustment).Methods("POST")
	api.HandleFunc("/credits/{creditId}/recalculate", creditHandler.Recalculate).Methods("POST")
	api.HandleFunc("/credits/{creditId}/payments", creditHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/credits/{creditId}/outstanding", creditHandler.GetOutstanding).Methods("GET")

	return router
}
