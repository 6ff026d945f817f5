package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	// Server
	Port        string
	Environment string
	BaseURL     string

	// Auth
	JWTSecret string

	// Database
	DatabaseDriver string // "postgres" or "memory"
	DatabaseURL    string

	// Storage
	StorageProvider string // "supabase", "s3", "local" or "memory"
	UploadFolder    string

	// Supabase storage
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// S3-compatible storage (MinIO, ArvanCloud, AWS S3)
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string
	S3UseSSL        bool

	// Local disk storage
	LocalUploadPath string

	// Upload limits
	MaxFileSize  int64
	MaxFileCount int

	// Delay between staged progress checkpoints. Zero disables pacing.
	ProgressStepDelay time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		StorageProvider: getEnv("STORAGE_PROVIDER", "local"),
		UploadFolder:    getEnv("UPLOAD_FOLDER", "gallery-images"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "gallery-images"),

		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3Bucket:        getEnv("S3_BUCKET", "gallery-images"),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		S3UseSSL:        getEnvBool("S3_USE_SSL", false),

		LocalUploadPath: getEnv("LOCAL_UPLOAD_PATH", "./uploads"),

		MaxFileSize:  getEnvInt64("MAX_FILE_SIZE", 5*1024*1024),
		MaxFileCount: getEnvInt("MAX_FILE_COUNT_PER_REQUEST", 10),

		ProgressStepDelay: time.Duration(getEnvInt("PROGRESS_STEP_DELAY_MS", 500)) * time.Millisecond,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER is postgres")
	}
	switch c.StorageProvider {
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required when STORAGE_PROVIDER is supabase")
		}
	case "s3":
		if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required when STORAGE_PROVIDER is s3")
		}
	case "local", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.MaxFileCount <= 0 {
		return fmt.Errorf("MAX_FILE_COUNT_PER_REQUEST must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
