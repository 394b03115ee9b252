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

	"github.com/munirag/munirag/internal/ai"
	"github.com/munirag/munirag/internal/config"
	"github.com/munirag/munirag/internal/db"
	"github.com/munirag/munirag/internal/embedcache"
	"github.com/munirag/munirag/internal/filestore"
	"github.com/munirag/munirag/internal/handler"
	"github.com/munirag/munirag/internal/job"
	"github.com/munirag/munirag/internal/middleware"
	"github.com/munirag/munirag/internal/rag"
	"github.com/munirag/munirag/internal/repo"
	"github.com/munirag/munirag/internal/schedule"
	"github.com/munirag/munirag/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "munirag",
		Short: "municipal document question answering server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run munirag server",
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
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	docRepo := repo.NewDocumentRepo(conn)
	chunkRepo := repo.NewChunkRepo(conn)
	querylogRepo := repo.NewQueryLogRepo(conn)
	attachmentRepo := repo.NewAttachmentRepo(conn)

	embedder, err := ai.NewEmbedder(cfg.Embedding.Provider, ai.Config{
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		APIKey:     cfg.Embedding.APIKey,
		Endpoint:   cfg.Embedding.Endpoint,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	if cfg.Embedding.CacheSize > 0 {
		embedder = embedcache.WrapLruCacheToEmbedder(
			embedder,
			cfg.Embedding.CacheSize,
			time.Duration(cfg.Embedding.CacheTTLMinutes)*time.Minute,
		)
	}

	retriever := rag.NewRetriever(service.NewChunkSource(chunkRepo), rag.RetrieverConfig{
		MaxResults:          cfg.Retrieval.MaxResults,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
	})
	indexService := service.NewIndexService(conn, docRepo, chunkRepo, embedder, cfg.Chunking)
	answerService := service.NewAnswerService(embedder, retriever, querylogRepo)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(cfg.Auth),
		Ask:         handler.NewAskHandler(answerService),
		Documents:   handler.NewDocumentHandler(indexService),
		Attachments: handler.NewAttachmentHandler(indexService, attachmentRepo, store),
		QueryLogs:   handler.NewQueryLogHandler(querylogRepo),
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		AskWindow:   time.Duration(cfg.AskRateLimitSeconds) * time.Second,
	}

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewQueryLogCleanupJob(querylogRepo, time.Duration(cfg.QueryLog.RetentionDays)*24*time.Hour)
	if err := scheduler.AddJob(cleanup, cfg.QueryLog.CleanupSpec); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
