// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/prodtrack/backend-go/internal/api"
	"github.com/andresuchdata/prodtrack/backend-go/internal/cache"
	"github.com/andresuchdata/prodtrack/backend-go/internal/config"
	"github.com/andresuchdata/prodtrack/backend-go/internal/drive"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
	"github.com/andresuchdata/prodtrack/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(logger.LevelForMode(cfg.Server.Mode))
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.SetOutput(os.Stdout)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	recordCache, err := cache.NewRecordCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Record cache unavailable, continuing without cache")
		recordCache = cache.NewNoopRecordCache()
	}

	recordRepo := postgres.NewRecordRepository(db)
	planRepo := postgres.NewPlanRepository(db)

	services := &api.Services{
		Dashboard: service.NewDashboardService(recordRepo, planRepo, recordCache, cfg.Production),
		Plans:     service.NewPlanService(planRepo),
		Ingest:    service.NewIngestService(recordRepo, planRepo, recordCache),
	}
	services.Drive = newDriveHandler(ctx, cfg.Drive, services.Ingest)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(services, cfg.Server.AllowedOrigins),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newDriveHandler returns nil when Drive is not configured or unreachable.
func newDriveHandler(ctx context.Context, cfg config.DriveConfig, store drive.PlanStore) *drive.Handler {
	if cfg.ServiceAccountPath == "" {
		return nil
	}
	credentials, err := os.ReadFile(cfg.ServiceAccountPath)
	if err != nil {
		logger.Log.Warn().Err(err).Str("path", cfg.ServiceAccountPath).Msg("Drive credentials unreadable, plan import disabled")
		return nil
	}
	source, err := drive.NewService(ctx, string(credentials))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Drive client unavailable, plan import disabled")
		return nil
	}
	return drive.NewHandler(source, drive.NewPlanImporter(source, store, cfg.PlanFolderPath))
}
