package database

import (
	"context"

	"github.com/google/uuid"

	"gallery-backend/internal/models"
)

// ListImagesParams selects one page of a user's gallery. Cursor is the id
// of the last record already seen; records strictly beyond it in the
// requested direction are returned. Search is a case-insensitive substring
// match over stored and original filenames.
type ListImagesParams struct {
	Limit  int
	Cursor *int64
	SortBy string
	Order  string
	Search string
}

// Store is the persistence boundary shared by the upload orchestrator, the
// gallery query engine and the bulk deletion coordinator. Implemented by
// the Postgres Client and by MemoryStore.
type Store interface {
	CreateSession(ctx context.Context, session *models.UploadSession) (*models.UploadSession, error)
	GetSession(ctx context.Context, id int64) (*models.UploadSession, error)
	// IncrementSessionProgress adds one to the session's completed-file
	// counter. Must be safe under concurrent sibling increments.
	IncrementSessionProgress(ctx context.Context, id int64) error
	UpdateSessionStatus(ctx context.Context, id int64, status string) error

	CreateImage(ctx context.Context, image *models.Image) (*models.Image, error)
	ListImages(ctx context.Context, userID uuid.UUID, params ListImagesParams) ([]models.Image, error)
	GetImagesByIDs(ctx context.Context, ids []int64) ([]models.Image, error)
	DeleteImagesByIDs(ctx context.Context, ids []int64) error

	Close() error
}
