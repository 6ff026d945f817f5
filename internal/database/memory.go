package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gallery-backend/internal/models"
)

// MemoryStore implements Store in memory, with the same ordering, cursor
// and search semantics as the Postgres Client. Used by tests and by the
// "memory" database driver.
type MemoryStore struct {
	mu            sync.Mutex
	nextSessionID int64
	nextImageID   int64
	sessions      map[int64]*models.UploadSession
	images        []models.Image
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*models.UploadSession)}
}

func (s *MemoryStore) CreateSession(ctx context.Context, session *models.UploadSession) (*models.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSessionID++
	created := &models.UploadSession{
		ID:         s.nextSessionID,
		SessionID:  session.SessionID,
		UserID:     session.UserID,
		TotalFiles: session.TotalFiles,
		Status:     models.SessionStatusProcessing,
		CreatedAt:  time.Now(),
	}
	s.sessions[created.ID] = created

	copied := *created
	return &copied, nil
}

func (s *MemoryStore) GetSession(ctx context.Context, id int64) (*models.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("failed to get upload session: no session with id %d", id)
	}
	copied := *session
	return &copied, nil
}

func (s *MemoryStore) IncrementSessionProgress(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("failed to increment session progress: no session with id %d", id)
	}
	session.CompletedFiles++
	return nil
}

func (s *MemoryStore) UpdateSessionStatus(ctx context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("failed to update session status: no session with id %d", id)
	}
	session.Status = status
	return nil
}

func (s *MemoryStore) CreateImage(ctx context.Context, image *models.Image) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextImageID++
	created := *image
	created.ID = s.nextImageID
	created.UploadedAt = time.Now()
	s.images = append(s.images, created)

	copied := created
	return &copied, nil
}

func (s *MemoryStore) ListImages(ctx context.Context, userID uuid.UUID, params ListImagesParams) ([]models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(params.Search)
	matched := make([]models.Image, 0)
	for _, image := range s.images {
		if image.UserID != userID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(image.FileName), search) &&
			!strings.Contains(strings.ToLower(image.OriginalName), search) {
			continue
		}
		if params.Cursor != nil {
			if params.Order == models.OrderAsc && image.ID <= *params.Cursor {
				continue
			}
			if params.Order != models.OrderAsc && image.ID >= *params.Cursor {
				continue
			}
		}
		matched = append(matched, image)
	}

	asc := params.Order == models.OrderAsc
	sort.SliceStable(matched, func(i, j int) bool {
		less, equal := compareImages(matched[i], matched[j], params.SortBy)
		if equal {
			less = matched[i].ID < matched[j].ID
		}
		if asc {
			return less
		}
		return !less
	})

	if len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) GetImagesByIDs(ctx context.Context, ids []int64) ([]models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	found := make([]models.Image, 0, len(ids))
	for _, image := range s.images {
		if _, ok := wanted[image.ID]; ok {
			found = append(found, image)
		}
	}
	return found, nil
}

func (s *MemoryStore) DeleteImagesByIDs(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doomed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	kept := s.images[:0]
	for _, image := range s.images {
		if _, ok := doomed[image.ID]; !ok {
			kept = append(kept, image)
		}
	}
	s.images = kept
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func compareImages(a, b models.Image, sortBy string) (less, equal bool) {
	switch sortBy {
	case models.SortByFileName:
		return a.FileName < b.FileName, a.FileName == b.FileName
	case models.SortByFileSize:
		return a.FileSize < b.FileSize, a.FileSize == b.FileSize
	default:
		return a.UploadedAt.Before(b.UploadedAt), a.UploadedAt.Equal(b.UploadedAt)
	}
}
