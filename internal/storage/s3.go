package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Provider stores blobs in any S3-compatible backend (MinIO, ArvanCloud,
// AWS S3). Object keys are "<folder>/<filename>"; public URLs hang off
// publicBase so a CDN front can be swapped in without code changes.
type S3Provider struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewS3Provider(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool) (*S3Provider, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	if publicBase == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return &S3Provider{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (p *S3Provider) Upload(ctx context.Context, file File, folder, filename string) (string, error) {
	key := folder + "/" + filename
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(file.Data), int64(len(file.Data)), minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %q: %w", key, err)
	}
	return p.publicBase + "/" + key, nil
}

func (p *S3Provider) UploadMany(ctx context.Context, files []File, folder string) ([]string, error) {
	urls := make([]string, len(files))
	for i, file := range files {
		url, err := p.Upload(ctx, file, folder, file.Name)
		if err != nil {
			return nil, err
		}
		urls[i] = url
	}
	return urls, nil
}

// Delete removes the object behind fileURL. S3 deletes are idempotent, so
// an absent object already reports success.
func (p *S3Provider) Delete(ctx context.Context, fileURL string) (bool, error) {
	key, ok := p.objectKey(fileURL)
	if !ok {
		return false, fmt.Errorf("url %q does not belong to this bucket", fileURL)
	}
	if err := p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return true, nil
}

func (p *S3Provider) DeleteMany(ctx context.Context, fileURLs []string) ([]bool, error) {
	results := make([]bool, len(fileURLs))
	for i, fileURL := range fileURLs {
		ok, err := p.Delete(ctx, fileURL)
		results[i] = ok && err == nil
	}
	return results, nil
}

func (p *S3Provider) objectKey(fileURL string) (string, bool) {
	prefix := p.publicBase + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(fileURL, prefix), true
}
