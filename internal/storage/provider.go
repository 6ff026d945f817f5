// Package storage defines the blob-storage contract the upload pipeline
// depends on. Swap backends by configuration — business logic only ever
// sees the Provider interface, and treats returned URLs as opaque.
package storage

import (
	"context"
	"fmt"

	"gallery-backend/internal/config"
)

// File is one raw upload payload handed to a Provider.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Provider is the capability set required of any storage backend.
//
// Upload stores one blob under folder and returns its publicly resolvable
// URL. UploadMany is order-preserving and one-to-one with its input.
// Delete removes the blob at the given URL; an already-absent blob counts
// as a successful delete. DeleteMany resolves each URL independently —
// one failure never blocks the others.
type Provider interface {
	Upload(ctx context.Context, file File, folder, filename string) (string, error)
	UploadMany(ctx context.Context, files []File, folder string) ([]string, error)
	Delete(ctx context.Context, fileURL string) (bool, error)
	DeleteMany(ctx context.Context, fileURLs []string) ([]bool, error)
}

// NewProvider selects the concrete backend from configuration.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.StorageProvider {
	case "supabase":
		return NewSupabaseProvider(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	case "s3":
		return NewS3Provider(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicBaseURL, cfg.S3UseSSL)
	case "local":
		return NewLocalProvider(cfg.LocalUploadPath, cfg.BaseURL), nil
	case "memory":
		return NewMemoryProvider(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}
