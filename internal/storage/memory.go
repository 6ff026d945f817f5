package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProvider keeps blobs in a map. Used by tests and for running the
// service without any external storage.
type MemoryProvider struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: make(map[string][]byte)}
}

func (p *MemoryProvider) Upload(ctx context.Context, file File, folder, filename string) (string, error) {
	url := fmt.Sprintf("memory://%s/%s", folder, filename)

	p.mu.Lock()
	defer p.mu.Unlock()
	data := make([]byte, len(file.Data))
	copy(data, file.Data)
	p.objects[url] = data

	return url, nil
}

func (p *MemoryProvider) UploadMany(ctx context.Context, files []File, folder string) ([]string, error) {
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

func (p *MemoryProvider) Delete(ctx context.Context, fileURL string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.objects, fileURL)
	return true, nil
}

func (p *MemoryProvider) DeleteMany(ctx context.Context, fileURLs []string) ([]bool, error) {
	results := make([]bool, len(fileURLs))
	for i, fileURL := range fileURLs {
		ok, err := p.Delete(ctx, fileURL)
		results[i] = ok && err == nil
	}
	return results, nil
}

// Has reports whether a blob is currently stored at fileURL.
func (p *MemoryProvider) Has(fileURL string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.objects[fileURL]
	return ok
}

// Len returns the number of stored blobs.
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.objects)
}
