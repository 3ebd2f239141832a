package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/oykulab/masal-api/internal/auth"
	"github.com/oykulab/masal-api/internal/config"
	"github.com/oykulab/masal-api/internal/handler"
	"github.com/oykulab/masal-api/internal/mailer"
	"github.com/oykulab/masal-api/internal/mongodb"
	"github.com/oykulab/masal-api/internal/openrouter"
	"github.com/oykulab/masal-api/internal/registry"
	"github.com/oykulab/masal-api/internal/repository"
	"github.com/oykulab/masal-api/internal/usecase"
	"github.com/oykulab/masal-api/internal/validation"
)

const serviceName = "masal-api"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()
	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	storyRepo := repository.NewStoryMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)

	var sender mailer.Sender
	if cfg.SMTP.Configured() {
		sender = mailer.New(cfg.SMTP)
	} else {
		logger.Warn().Msg("smtp is not configured; password reset mails are disabled")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth)
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, sender, &logger, cfg)
	storyUsecase := usecase.NewStoryUsecase(storyRepo, openrouter.NewClient(cfg.OpenRouter))

	validator := validation.New(&logger)

	authHandler := handler.NewAuthHandler(authUsecase, resetUsecase, validator, &logger)
	storyHandler := handler.NewStoryHandler(storyUsecase, validator, &logger)
	authGate := handler.Authenticator(jwtAuth, userRepo, &logger)

	router := handler.NewRouter(authHandler, storyHandler, authGate, &logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.ConsulAddr != "" {
		reg, err := registry.New(cfg.ConsulAddr, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to consul")
		}
		if err := reg.Register(serviceName, cfg.ServerHost, cfg.ServerPort); err != nil {
			logger.Fatal().Err(err).Msg("failed to register service with consul")
		}
		defer func() {
			if err := reg.Deregister(); err != nil {
				logger.Error().Err(err).Msg("failed to deregister service from consul")
			}
		}()
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
