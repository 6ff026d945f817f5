package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider stores blobs on the local filesystem under rootDir and
// serves them from "<baseURL>/uploads/...". Intended for development and
// single-host deployments.
type LocalProvider struct {
	rootDir string
	baseURL string
}

func NewLocalProvider(rootDir, baseURL string) *LocalProvider {
	return &LocalProvider{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *LocalProvider) Upload(ctx context.Context, file File, folder, filename string) (string, error) {
	if folder == "" {
		return "", fmt.Errorf("folder is required")
	}

	folderPath := filepath.Join(p.rootDir, folder)
	if err := os.MkdirAll(folderPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", folderPath, err)
	}

	if err := os.WriteFile(filepath.Join(folderPath, filename), file.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", filename, err)
	}

	return p.baseURL + "/uploads/" + folder + "/" + filename, nil
}

func (p *LocalProvider) UploadMany(ctx context.Context, files []File, folder string) ([]string, error) {
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

func (p *LocalProvider) Delete(ctx context.Context, fileURL string) (bool, error) {
	relPath, ok := p.relativePath(fileURL)
	if !ok {
		return false, fmt.Errorf("url %q is not served from this store", fileURL)
	}

	err := os.Remove(filepath.Join(p.rootDir, filepath.FromSlash(relPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to delete %q: %w", relPath, err)
	}
	return true, nil
}

func (p *LocalProvider) DeleteMany(ctx context.Context, fileURLs []string) ([]bool, error) {
	results := make([]bool, len(fileURLs))
	for i, fileURL := range fileURLs {
		ok, err := p.Delete(ctx, fileURL)
		results[i] = ok && err == nil
	}
	return results, nil
}

func (p *LocalProvider) relativePath(fileURL string) (string, bool) {
	prefix := p.baseURL + "/uploads/"
	if !strings.HasPrefix(fileURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(fileURL, prefix), true
}
