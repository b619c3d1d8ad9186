package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shoplist-generator/internal/api"
	"shoplist-generator/internal/core/consolidate"
	"shoplist-generator/internal/core/recipe"
	"shoplist-generator/internal/infrastructure/config"
	"shoplist-generator/internal/pkg/common"
	"shoplist-generator/internal/storage/sqlite"
)

func main() {
	// LoadConfig loads .env itself before reading the environment.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	recipes, err := recipe.NewStore(cfg.Storage.DatabaseFile)
	if err != nil {
		common.LogError("Failed to load recipe collection",
			zap.String("path", cfg.Storage.DatabaseFile),
			zap.Error(err),
		)
		os.Exit(1)
	}
	common.LogInfo("Recipe collection loaded",
		zap.String("path", cfg.Storage.DatabaseFile),
		zap.Int("recipes", recipes.Len()),
		zap.Strings("collections", recipes.Collections()),
	)

	records, err := sqlite.New(cfg.Storage.RecordDB)
	if err != nil {
		common.LogError("Failed to open record store",
			zap.String("path", cfg.Storage.RecordDB),
			zap.Error(err),
		)
		os.Exit(1)
	}
	defer records.Close()

	cache, err := consolidate.NewCache(&cfg.Cache)
	if err != nil {
		common.LogError("Failed to initialize cache", zap.Error(err))
		os.Exit(1)
	}
	defer cache.Close()

	router, err := api.SetupRouter(cfg, recipes, records, cache)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
