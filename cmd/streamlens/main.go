package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/temcen/streamlens/internal/app"
	"github.com/temcen/streamlens/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Run the pipeline once at startup so the API has a bundle to serve
	// and the export directory is populated.
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	result, err := application.RunPipeline(runCtx)
	if err != nil {
		log.Fatalf("Pipeline run failed: %v", err)
	}
	log.Printf("Pipeline run %s complete: %d events", result.RunID, len(result.Dataset.Events))

	if !cfg.Server.Enabled {
		if err := application.Shutdown(context.Background()); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		return
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: application.Router(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := application.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server exited")
}
