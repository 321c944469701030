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

	"github.com/itsVijayCoder/doc-chain-server/internal/config"
	"github.com/itsVijayCoder/doc-chain-server/internal/db"
	"github.com/itsVijayCoder/doc-chain-server/internal/filestore"
	"github.com/itsVijayCoder/doc-chain-server/internal/handler"
	"github.com/itsVijayCoder/doc-chain-server/internal/job"
	"github.com/itsVijayCoder/doc-chain-server/internal/middleware"
	"github.com/itsVijayCoder/doc-chain-server/internal/repo"
	"github.com/itsVijayCoder/doc-chain-server/internal/schedule"
	"github.com/itsVijayCoder/doc-chain-server/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "docchain",
		Short: "docchain document sharing server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run docchain server",
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
		zap.String("public_url", cfg.PublicURL),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(conn)
	docRepo := repo.NewDocumentRepo(conn)
	shareRepo := repo.NewShareRepo(conn)
	linkRepo := repo.NewShareLinkRepo(conn)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	directoryService := service.NewDirectoryService(userRepo)
	documentService := service.NewDocumentService(docRepo, shareRepo)
	shareService := service.NewShareService(docRepo, shareRepo, userRepo)
	linkService := service.NewLinkService(docRepo, linkRepo, cfg.PublicURL,
		cfg.LinkCache.Size, time.Duration(cfg.LinkCache.TTLSeconds)*time.Second)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserHandler(directoryService),
		Documents: handler.NewDocumentHandler(documentService, store),
		Shares:    handler.NewShareHandler(shareService),
		Links:     handler.NewLinkHandler(linkService, store),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewShareExpiryJob(shareRepo, linkRepo), cfg.ExpirySweep); err != nil {
		return fmt.Errorf("schedule expiry sweep: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
