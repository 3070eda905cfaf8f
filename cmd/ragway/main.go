package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/catalog"
	"github.com/xxxsen/ragway/internal/config"
	"github.com/xxxsen/ragway/internal/db"
	"github.com/xxxsen/ragway/internal/handler"
	"github.com/xxxsen/ragway/internal/job"
	"github.com/xxxsen/ragway/internal/middleware"
	"github.com/xxxsen/ragway/internal/repo"
	"github.com/xxxsen/ragway/internal/schedule"
	"github.com/xxxsen/ragway/internal/service"
	"github.com/xxxsen/ragway/internal/settings"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ragway",
		Short: "ragway rag gateway server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run ragway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_host", cfg.Database.Host),
	)

	settingsRepo := repo.NewSettingsRepo(conn)
	contentRepo := repo.NewContentRepo(conn)
	productRepo := repo.NewProductRepo(conn)
	cacheRepo := repo.NewEmbeddingCacheRepo(conn)

	settingsStore := settings.NewStore(settingsRepo)
	runtime := settings.NewManager(settingsStore, cacheRepo, cfg.EmbedCache)

	catalogClient := catalog.New(cfg.Catalog.URL, cfg.Catalog.Key, cfg.Catalog.Secret)

	contentService := service.NewContentService(contentRepo, runtime)
	productService := service.NewProductService(productRepo, catalogClient, runtime)
	settingsService := service.NewSettingsService(settingsStore, runtime)

	deps := handler.RouterDeps{
		Content:         handler.NewContentHandler(contentService),
		Products:        handler.NewProductHandler(productService),
		Settings:        handler.NewSettingsHandler(settingsService),
		Health:          handler.NewHealthHandler(runtime),
		RateLimitWindow: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORS),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Schedule.ContentSyncCron != "" {
		if err := scheduler.AddJob(job.NewContentSyncJob(contentService), cfg.Schedule.ContentSyncCron); err != nil {
			return fmt.Errorf("schedule content sync: %w", err)
		}
	}
	if cfg.Schedule.CacheCleanupCron != "" {
		if err := scheduler.AddJob(job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.EmbedCache.MaxAgeDays), cfg.Schedule.CacheCleanupCron); err != nil {
			return fmt.Errorf("schedule cache cleanup: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
