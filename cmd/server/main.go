package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbfs "github.com/garnizeh/chronosflow/db"
	"github.com/garnizeh/chronosflow/api"
	"github.com/garnizeh/chronosflow/internal/advice"
	"github.com/garnizeh/chronosflow/internal/config"
	"github.com/garnizeh/chronosflow/internal/db"
	"github.com/garnizeh/chronosflow/internal/repository/sqlite"
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/garnizeh/chronosflow/internal/state"
	"github.com/garnizeh/chronosflow/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ollama.SetLogger(logger)
	advice.SetLogger(logger)

	log.Printf("Starting ChronosFlow server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection
	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
	}

	repo := sqlite.New(conn, logger)

	loader, err := state.NewLoader(ctx, repo)
	if err != nil {
		log.Fatalf("Failed to load state schemas: %v", err)
	}
	if _, ok := loader.GetSchema(state.SchemaVersion); !ok {
		log.Fatalf("State schema %s not found; run migrations first", state.SchemaVersion)
	}

	client, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatalf("Failed to create Ollama client: %v", err)
	}
	defer client.Close()

	hctx, hcancel := context.WithTimeout(ctx, cfg.Ollama.Timeout)
	if err := client.Health(hctx); err != nil {
		logger.Warn("ollama unavailable, advice will use the fallback text", slog.Any("err", err))
	}
	hcancel()

	advisor := advice.New(advice.NewOllamaGenerator(client, cfg.Advice.Model), cfg.Advice)
	auth := service.NewAuth(repo, cfg.JWTSecret, cfg.TokenDuration, cfg.BcryptCost)
	tracker := service.NewTracker(repo, repo, state.NewCodec(loader, logger), advisor, logger)

	handler := api.SetupRoutes(version, buildTime, auth, tracker)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout + cfg.Advice.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
