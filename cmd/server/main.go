// Command server runs the credential service HTTP API.
//
// @title        Credential Service API
// @version      1.0
// @description  Account registration, login and bearer-token protected profile lookup.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cleanbook/credential-service/internal/api"
	"github.com/cleanbook/credential-service/internal/core/service"
	"github.com/cleanbook/credential-service/internal/infrastructure/crypto"
	"github.com/cleanbook/credential-service/internal/infrastructure/db/memory"
	"github.com/cleanbook/credential-service/internal/infrastructure/token"
	"github.com/cleanbook/credential-service/internal/pkg/config"
	"github.com/cleanbook/credential-service/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "credential-service",
	})

	secret, fallback, err := cfg.SigningSecret()
	if err != nil {
		log.Fatal().Err(err).Msg("refusing to start")
	}
	if fallback {
		log.Warn().Msg("JWT_SECRET not set, signing tokens with the development fallback secret")
	}

	hasher, err := crypto.NewHasher(cfg.Hash.Algorithm, cfg.Hash.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid hash configuration")
	}
	jwtSvc, err := token.NewJWT(secret)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	directory := memory.NewUserDirectory()
	authService := service.NewAuthService(directory, hasher, jwtSvc, log.With().Str("component", "auth").Logger())

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Verifier:    jwtSvc,
		Logger:      log,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Metrics:     true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Str("hash", hasher.Algorithm()).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
