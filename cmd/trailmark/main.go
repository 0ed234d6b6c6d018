package main

import (
	"context"
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

	"github.com/xxxsen/trailmark/internal/config"
	"github.com/xxxsen/trailmark/internal/db"
	"github.com/xxxsen/trailmark/internal/filestore"
	"github.com/xxxsen/trailmark/internal/handler"
	"github.com/xxxsen/trailmark/internal/job"
	"github.com/xxxsen/trailmark/internal/middleware"
	"github.com/xxxsen/trailmark/internal/pkg/jwt"
	"github.com/xxxsen/trailmark/internal/repo"
	"github.com/xxxsen/trailmark/internal/schedule"
	"github.com/xxxsen/trailmark/internal/service"
)

const authRateWindow = time.Second

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "trailmark",
		Short: "trailmark marker and trail server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run trailmark server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer database.Close()
			return runServer(cfg, database)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer database.Close()
			logutil.GetLogger(context.Background()).Info("migrations applied")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func bootstrap(configPath string) (*config.Config, *db.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
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

	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(database); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, database, nil
}

func runServer(cfg *config.Config, database *db.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_driver", database.Driver()),
		zap.String("file_store", cfg.FileStore.Type),
	)

	reads := repo.New(database.Executor())
	coord := service.NewCoordinator(database)
	tokens := jwt.NewManager([]byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	tagRegistry, err := service.NewTagRegistry(reads, cfg.TagCacheSize)
	if err != nil {
		return fmt.Errorf("init tag registry: %w", err)
	}
	authService := service.NewAuthService(reads.Users, tokens)
	markerService := service.NewMarkerService(reads, coord, tagRegistry)
	serialService := service.NewSerialService(reads, coord)
	photoService := service.NewPhotoService(reads, coord, store, cfg.Photo.MaxSize)

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService),
		Markers:     handler.NewMarkerHandler(markerService),
		Photos:      handler.NewPhotoHandler(photoService),
		Serials:     handler.NewSerialHandler(serialService),
		Files:       handler.NewFileHandler(store),
		Tokens:      tokens,
		AuthLimiter: authRateWindow,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	gcJob := job.NewPhotoGCJob(photoService, 0)
	if err := scheduler.AddJob(gcJob, cfg.PhotoGCCron); err != nil {
		return fmt.Errorf("schedule photo gc: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()
	go scheduler.RunNow(gcJob)

	engine, err := webapi.NewEngine(
		"/api",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
