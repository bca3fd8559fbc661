package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/config"
	http_controllers "github.com/mrlokans/transcripts/internal/http"
	"github.com/mrlokans/transcripts/internal/scheduler"
	"github.com/mrlokans/transcripts/internal/tasks"
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
		log.Infof("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infof("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Info("Server exiting")
}

func Run(cfg *config.Config, version string) {
	if err := config.ConfigureLogging(cfg.Logging); err != nil {
		log.Fatalf("Invalid logging configuration: %v", err)
	}
	log.Infof("Starting transcripts v%s", version)

	app, err := Build(Options{
		InputDir:     cfg.Paths.DataDir,
		OutputDir:    cfg.Paths.OutputDir,
		DatabasePath: cfg.Database.Path,
		AuditDir:     cfg.Audit.Dir,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()

	log.Infof("Reading input from %s, writing output to %s", cfg.Paths.DataDir, cfg.Paths.OutputDir)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         1,
			TaskTimeout:     cfg.Tasks.TaskTimeout,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Errorf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewConvertQueue(app.Service, cfg.Tasks.TaskTimeout),
			tasks.NewCleanupRunsQueue(app.Audit),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Audit.RetentionDays > 0 {
			if _, err := taskClient.EnqueueRunCleanup(cfg.Audit.RetentionDays); err != nil {
				log.Warnf("Failed to enqueue run cleanup: %v", err)
			}
		}
	} else if cfg.Audit.RetentionDays > 0 {
		retention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
		if deleted, err := app.Audit.DeleteOldRuns(retention); err != nil {
			log.Warnf("Failed to delete old runs: %v", err)
		} else if deleted > 0 {
			log.Infof("Deleted %d runs older than %d days", deleted, cfg.Audit.RetentionDays)
		}
	}

	var watcher *scheduler.WatchScheduler
	if cfg.Watch.Enabled {
		watcher, err = newWatchScheduler(cfg.Watch, app, taskClient)
		if err != nil {
			log.Fatalf("Failed to configure watch scheduler: %v", err)
		}
		if err := watcher.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start watch scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database: app.DB,
		Runner:   app.Service,
		Version:  version,
	}
	if app.Runs != nil {
		routerCfg.Runs = app.Runs
	}
	if taskClient != nil {
		routerCfg.Queue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if watcher != nil {
			watcher.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// newWatchScheduler builds a scheduler that enqueues through the task
// queue when one is available and converts inline otherwise.
func newWatchScheduler(cfg config.Watch, app *App, taskClient *tasks.Client) (*scheduler.WatchScheduler, error) {
	sources, err := scheduler.ParseSources(cfg.Sources)
	if err != nil {
		return nil, err
	}
	if err := scheduler.ValidateCronSchedule(cfg.Schedule); err != nil {
		return nil, err
	}

	var enqueuer scheduler.Enqueuer
	if taskClient != nil {
		enqueuer = taskClient
	}

	log.Infof("Watching %s: %s", scheduler.FormatSources(sources), scheduler.GetCronDescription(cfg.Schedule))
	return scheduler.NewWatchScheduler(scheduler.WatchConfig{
		Schedule: cfg.Schedule,
		Sources:  sources,
	}, app.Service, enqueuer), nil
}
