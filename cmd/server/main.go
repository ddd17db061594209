package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/useraccounts/account-service/internal/api"
	"github.com/useraccounts/account-service/internal/core/service"
	"github.com/useraccounts/account-service/internal/infrastructure/config"
	mongodb "github.com/useraccounts/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/useraccounts/account-service/internal/infrastructure/db/redis"
	"github.com/useraccounts/account-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.Auth.SecretKey == "" {
		log.Fatal().Msg("SECRET_KEY must be set")
	}
	if cfg.Auth.AdminPassword == "" {
		log.Fatal().Msg("ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Credential store ---
	mongoRepo := mongodb.NewUserRepository(db)
	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}
	repo := redisdb.NewCachedUserRepository(mongoRepo, rdb, log)

	// --- Services ---
	tokenTTL := time.Duration(cfg.Auth.JWTExpireMinutes) * time.Minute
	tokens, err := service.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.JWTAlgorithm, tokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token service")
	}
	authService := service.NewAuthService(repo, tokens)
	userService := service.NewUserService(repo, authService, log)

	if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		AuthService: authService,
		UserService: userService,
		Logger:      log,
		CORSOrigins: cfg.CORS.Origins,
		Mongo:       db,
		Redis:       rdb,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
