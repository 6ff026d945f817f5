package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseProvider stores blobs in a Supabase Storage bucket.
type SupabaseProvider struct {
	client  *storage_go.Client
	bucket  string
	baseURL string
}

func NewSupabaseProvider(supabaseURL, serviceKey, bucket string) (*SupabaseProvider, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	client := storage_go.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &SupabaseProvider{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (p *SupabaseProvider) Upload(ctx context.Context, file File, folder, filename string) (string, error) {
	objectPath := folder + "/" + filename

	contentType := file.ContentType
	upsert := true
	_, err := p.client.UploadFile(p.bucket, objectPath, bytes.NewReader(file.Data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", objectPath, err)
	}

	return p.publicURL(objectPath), nil
}

func (p *SupabaseProvider) UploadMany(ctx context.Context, files []File, folder string) ([]string, error) {
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

func (p *SupabaseProvider) Delete(ctx context.Context, fileURL string) (bool, error) {
	objectPath, ok := p.objectPath(fileURL)
	if !ok {
		return false, fmt.Errorf("url %q does not belong to this bucket", fileURL)
	}

	_, err := p.client.RemoveFile(p.bucket, []string{objectPath})
	if err != nil {
		// An object that is already gone counts as deleted.
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return true, nil
		}
		return false, fmt.Errorf("failed to delete %q: %w", objectPath, err)
	}
	return true, nil
}

func (p *SupabaseProvider) DeleteMany(ctx context.Context, fileURLs []string) ([]bool, error) {
	results := make([]bool, len(fileURLs))
	for i, fileURL := range fileURLs {
		ok, err := p.Delete(ctx, fileURL)
		results[i] = ok && err == nil
	}
	return results, nil
}

func (p *SupabaseProvider) publicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", p.baseURL, p.bucket, objectPath)
}

func (p *SupabaseProvider) objectPath(fileURL string) (string, bool) {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", p.baseURL, p.bucket)
	if !strings.HasPrefix(fileURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(fileURL, prefix), true
}
