package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/exporters"
	http_controllers "github.com/mrlokans/clippings/internal/http"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	if cfg.Markdown.ExportDir == "" {
		log.Printf("Markdown export directory is not set, highlights are stored in the database only. Set 'MARKDOWN_EXPORT_DIR' to enable.")
	} else if err := os.MkdirAll(cfg.Markdown.ExportDir, 0755); err != nil {
		log.Fatalf("Markdown export directory %s is not writable: %v", cfg.Markdown.ExportDir, err)
		return
	} else {
		log.Printf("Exporting markdown to %s\n", cfg.Markdown.ExportDir)
	}

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -9 can't be caught, so only SIGINT and SIGTERM are handled
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background jobs before the server goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Clippings v%s", version)

	importOptions, err := cfg.Clippings.ImportOptions()
	if err != nil {
		log.Fatalf("Invalid clippings configuration: %v", err)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Database + markdown exporter, also serves reads for the books API
	exporter := exporters.NewDatabaseMarkdownExporter(db, cfg.Markdown.ExportDir)
	pipeline := importers.NewPipeline(exporter).WithSessions(db)

	var syncScheduler *scheduler.KindleSyncScheduler
	var syncCancel context.CancelFunc
	if cfg.KindleSync.Enabled {
		syncScheduler = scheduler.NewKindleSyncScheduler(pipeline, cfg.Clippings.Path, cfg.KindleSync.Schedule, importOptions).
			WithHistory(db)

		var syncCtx context.Context
		syncCtx, syncCancel = context.WithCancel(context.Background())
		if err := syncScheduler.Start(syncCtx); err != nil {
			log.Fatalf("Failed to start Kindle sync: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		BookReader:    exporter,
		Pipeline:      pipeline,
		Database:      db,
		ImportOptions: importOptions,
		SessionStore:  db,
		TagStore:      db,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if syncScheduler != nil {
			syncScheduler.Stop()
			syncCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
