package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/agency-crm/internal/api"
	"github.com/ignite/agency-crm/internal/config"
	"github.com/ignite/agency-crm/internal/domain"
	"github.com/ignite/agency-crm/internal/repository/postgres"
	"github.com/ignite/agency-crm/internal/storage"
	"github.com/ignite/agency-crm/internal/worker"
	"github.com/ignite/agency-crm/internal/zipdata"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pingCancel()
	log.Println("Database connected")

	// Redis holds import wizard sessions
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", cfg.Redis.Addr, err)
	}
	log.Printf("Redis connected: %s", cfg.Redis.Addr)

	contacts := postgres.NewContactRepo(db)
	agents := postgres.NewAgentRepo(db)
	carriers := postgres.NewCarrierRepo(db)
	jobs := postgres.NewImportJobRepo(db)

	// Seed the supported-carrier catalog from config
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	for _, seed := range cfg.Carriers {
		carrier := domain.Carrier{Name: seed.Name, Aliases: seed.Aliases}
		if err := carriers.Upsert(seedCtx, &carrier); err != nil {
			log.Printf("Warning: failed to seed carrier %q: %v", seed.Name, err)
		}
	}
	seedCancel()
	if len(cfg.Carriers) > 0 {
		log.Printf("Carrier catalog seeded: %d entries", len(cfg.Carriers))
	}

	// Optional S3 archive for raw import files
	var archiver worker.FileArchiver
	if cfg.Archive.Enabled && cfg.Archive.S3Bucket != "" {
		arch, err := storage.NewArchiver(context.Background(),
			cfg.Archive.S3Bucket, cfg.Archive.S3Region, cfg.Archive.GetAWSProfile())
		if err != nil {
			log.Printf("Warning: import archive init failed: %v — archiving disabled", err)
		} else {
			archiver = arch
			log.Printf("Import archive enabled (bucket: %s)", cfg.Archive.S3Bucket)
		}
	}

	imports := worker.NewImportService(rdb, contacts, carriers, jobs, archiver)
	imports.SetSessionTTL(cfg.Import.SessionTTL())

	// Zip lookups are optional reference data
	zips, err := zipdata.Load(cfg.ZipData.Path)
	if err != nil {
		log.Printf("Warning: zip data unavailable (%v) — lookups will miss", err)
		zips = zipdata.Empty()
	} else {
		log.Printf("Zip data loaded: %d codes", zips.Len())
	}

	handlers := api.NewHandlers(db, contacts, agents, carriers, imports, zips)
	handlers.SetMaxUploadBytes(cfg.Import.MaxFileBytes)
	server := api.NewServer(cfg.Server, handlers)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	db.Close()
	rdb.Close()

	log.Println("Server stopped")
}
