// Package server implements the HTTP server command.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ngoinfo/grantpilot/internal/infrastructure/cache"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/config"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/database"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/migration"
	httpRouter "github.com/ngoinfo/grantpilot/internal/interfaces/http"
	"github.com/ngoinfo/grantpilot/internal/shared/constants"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the GrantPilot HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	manager := migration.NewManager(env)
	if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
		logger.Fatal("database migration failed", "error", err)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	router, err := httpRouter.NewRouter(cmd.Context(), database.Get(), redisClient, cfg, logger.NewLogger())
	if err != nil {
		logger.Fatal("failed to build router", "error", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case constants.EnvProduction:
		return gin.ReleaseMode
	case constants.EnvTest:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
