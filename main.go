package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"finboard/dashboard/internal/api"
	"finboard/dashboard/internal/cache"
	"finboard/dashboard/internal/config"
	"finboard/dashboard/internal/db"
	"finboard/dashboard/internal/seed"
	"finboard/dashboard/internal/services"
	"finboard/dashboard/internal/storage"
	"finboard/dashboard/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'worker' (background tasks), 'seed' (load demo data and exit), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	// Seed mode loads the demo dataset and exits.
	if cfg.RunMode == "seed" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := seed.Run(ctx, mongoDb); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		fmt.Println("Database seeded.")
		return
	}

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Initialize Task Client
	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	runAPI := cfg.RunMode == "api" || cfg.RunMode == "all"
	runWorker := cfg.RunMode == "worker" || cfg.RunMode == "all"

	var apiSrv *http.Server
	if runAPI {
		router := api.SetupRouter(cfg, mongoDb, redisClient, taskClient)
		apiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("API listening on :%s\n", cfg.ApiPort)
			if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("API ListenAndServe error: %v", err)
			}
		}()
	}

	var taskSrv *asynq.Server
	if runWorker {
		pathCache := cache.NewPathCache(redisClient, cfg.GetCacheTTL)
		avatarStorage, err := storage.NewAvatarStorage(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage for worker: %v", err)
		}
		customerService := services.NewCustomerService(mongoDb)
		processor := tasks.NewTaskProcessor(cfg, pathCache, avatarStorage, customerService)

		srv, mux := tasks.SetupServer(redisClient, processor)
		taskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Println("Task worker started")
			if err := srv.Run(mux); err != nil {
				log.Fatalf("Task worker error: %v", err)
			}
		}()
	}

	if !runAPI && !runWorker {
		log.Fatalf("Unknown run mode: %s", cfg.RunMode)
	}

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down...")

	if apiSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(ctx); err != nil {
			log.Printf("API shutdown error: %v", err)
		}
	}
	if taskSrv != nil {
		taskSrv.Shutdown()
	}

	wg.Wait()
	fmt.Println("Shutdown complete.")
}
