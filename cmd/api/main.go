package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"

	"github.com/hsm-gustavo/userauth-api/internal/api/auth"
	"github.com/hsm-gustavo/userauth-api/internal/api/routes"
	"github.com/hsm-gustavo/userauth-api/internal/api/user"
	"github.com/hsm-gustavo/userauth-api/internal/config"
	"github.com/hsm-gustavo/userauth-api/internal/db"
	"github.com/hsm-gustavo/userauth-api/internal/logging"
	"github.com/hsm-gustavo/userauth-api/internal/password"
)

const serviceName = "userauth-api"

// set with -ldflags "-X main.version=..."
var version = "dev"

// @title						User Auth API
// @version					1.0
// @description				User registration and management with JWT authentication
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the access token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.LogError(slog.Default(), "invalid configuration", err)
		os.Exit(1)
	}

	logger := logging.Setup(serviceName, version, cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		v, err := db.RunMigrations(database, cfg.Database.Name)
		if err != nil {
			return err
		}
		logger.Info("database migrated", "version", v)
	}

	hasher := password.NewBcryptHasher()
	users := db.NewUserRepository(database)

	validator, err := auth.NewCredentialValidator(users, hasher)
	if err != nil {
		return err
	}
	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry.Std(), cfg.Auth.Issuer)
	if err != nil {
		return err
	}
	authenticator, err := auth.NewTokenAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	router := routes.SetupRoutes(routes.Deps{
		Users:  user.NewUserService(users, hasher),
		Auth:   auth.NewAuthService(validator, issuer, authenticator),
		DB:     database,
		Logger: logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)

	// starts server in a goroutine
	go func() {
		logger.Info("server running", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// channel to capture quit signals (e.g. CTRL+C)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return oops.Code("SERVER_START").Wrapf(err, "starting the server")
	case sig := <-quit:
		logger.Info("shutting down the server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SERVER_SHUTDOWN").Wrapf(err, "server shutdown")
	}

	logger.Info("server shut down successfully")
	return nil
}
