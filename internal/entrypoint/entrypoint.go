package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/shelfkeeper/shelfkeeper/internal/backup"
	"github.com/shelfkeeper/shelfkeeper/internal/config"
	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/database/authors"
	"github.com/shelfkeeper/shelfkeeper/internal/database/books"
	"github.com/shelfkeeper/shelfkeeper/internal/database/genres"
	"github.com/shelfkeeper/shelfkeeper/internal/database/tags"
	http_controllers "github.com/shelfkeeper/shelfkeeper/internal/http"
	"github.com/shelfkeeper/shelfkeeper/internal/scheduler"
	"github.com/shelfkeeper/shelfkeeper/internal/scraper"
	"github.com/shelfkeeper/shelfkeeper/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info("starting server", "host", cfg.HTTP.Host, "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down", "grace", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the listener so in-flight requests can
	// still observe queue state.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown failed", "err", err)
	}

	log.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Info("starting shelfkeeper", "version", version)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal("database init failed", "err", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("closing database", "err", err)
		}
	}()

	booksRepo := books.NewRepository(db)
	authorsRepo := authors.NewRepository(db)
	genresRepo := genres.NewRepository(db)
	tagsRepo := tags.NewRepository(db)
	backupRepo := backup.NewRepository(db)

	pageScraper := scraper.NewScraper(cfg.Scraper.Timeout)

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatal("task queue init failed", "err", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("closing task client", "err", err)
			}
		}()

		taskClient.Register(
			backup.NewExportQueue(backupRepo),
			backup.NewImportQueue(backupRepo),
			tasks.NewCleanupOrphanTagsQueue(tagsRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var backupScheduler *scheduler.BackupScheduler
	if cfg.Backup.Enabled && taskClient != nil {
		backupScheduler = scheduler.NewBackupScheduler(taskClient, cfg.Backup.Dir, cfg.Backup.Schedule)
		if err := backupScheduler.Start(context.Background()); err != nil {
			log.Fatal("backup scheduler start failed", "err", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:   db,
		Books:      booksRepo,
		Authors:    authorsRepo,
		Genres:     genresRepo,
		Tags:       tagsRepo,
		Backup:     backupRepo,
		TaskClient: taskClient,
		Scraper:    pageScraper,
		BackupDir:  cfg.Backup.Dir,
		Version:    version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if backupScheduler != nil {
			backupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
