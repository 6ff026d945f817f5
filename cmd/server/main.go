package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gallery-backend/internal/config"
	"gallery-backend/internal/database"
	"gallery-backend/internal/events"
	"gallery-backend/internal/handlers"
	"gallery-backend/internal/middleware"
	"gallery-backend/internal/services"
	"gallery-backend/internal/storage"
	"gallery-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Persistence
	var store database.Store
	switch cfg.DatabaseDriver {
	case "memory":
		log.Println("Using in-memory database (data is lost on restart)")
		store = database.NewMemoryStore()
	default:
		client, err := database.NewClient(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer client.Close()

		if err := database.NewMigrator(client.DB()).Run(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		store = client
	}

	// Storage backend, selected by configuration
	provider, err := storage.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage provider: %v", err)
	}
	log.Printf("Using %s storage provider", cfg.StorageProvider)

	// Progress broadcast hub, torn down with the process
	hub := events.NewHub()

	uploadService := services.NewUploadService(store, provider, hub, cfg.UploadFolder, cfg.ProgressStepDelay)
	galleryService := services.NewGalleryService(store, provider)

	validationOpts := validation.DefaultOptions()
	validationOpts.MaxFileSize = cfg.MaxFileSize
	validationOpts.MaxFileCount = cfg.MaxFileCount

	imagesHandler := handlers.NewImagesHandler(uploadService, galleryService, validationOpts)
	eventsHandler := handlers.NewEventsHandler(hub)

	router := gin.Default()

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Progress subscription (session id is the only access control)
	router.GET("/ws/sessions/:session_id", eventsHandler.Subscribe)

	// Locally stored uploads
	if cfg.StorageProvider == "local" {
		router.Static("/uploads", cfg.LocalUploadPath)
	}

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/images", imagesHandler.Upload)
	api.GET("/images", imagesHandler.List)
	api.DELETE("/images/bulk-delete", imagesHandler.BulkDelete)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
