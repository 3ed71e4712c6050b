package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/salonbook/booking-api/docs"
	"github.com/salonbook/booking-api/internal/api"
	"github.com/salonbook/booking-api/internal/core/service"
	"github.com/salonbook/booking-api/internal/infrastructure/config"
	mongodb "github.com/salonbook/booking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/salonbook/booking-api/internal/infrastructure/db/redis"
	"github.com/salonbook/booking-api/internal/infrastructure/notification"
	"github.com/salonbook/booking-api/pkg/logger"
)

// @title        Salon Booking API
// @version      1.0
// @description  Appointment scheduling with token authentication and RBAC.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Token service (key scheme selected by config) ---
	var privatePEM, publicPEM []byte
	if cfg.Token.PrivateKeyFile != "" {
		pem, err := os.ReadFile(cfg.Token.PrivateKeyFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read token private key")
		}
		privatePEM = pem
	}
	if cfg.Token.PublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.Token.PublicKeyFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read token public key")
		}
		publicPEM = pem
	}
	tokens, err := service.NewTokenService(cfg.Token.Alg, cfg.Token.Secret, privatePEM, publicPEM)
	if err != nil {
		log.Fatal().Err(err).Str("alg", cfg.Token.Alg).Msg("failed to build token service")
	}

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := mongodb.NewAppointmentRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create appointment indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Confirmation email pipeline ---
	notifier := notification.NewDispatcher(cfg.NotifierWorkers, notification.NewLogNotifier(log), log)
	notifier.Start(ctx)

	e := api.NewRouter(db, rdb, tokens, notifier, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
