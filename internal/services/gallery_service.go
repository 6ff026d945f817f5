package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"

	"gallery-backend/internal/database"
	"gallery-backend/internal/models"
	"gallery-backend/internal/storage"
)

var (
	ErrInvalidCursor  = errors.New("cursor is not a valid image id")
	ErrInvalidSortKey = errors.New("sortBy must be one of uploadedAt, fileName, fileSize")
	ErrInvalidOrder   = errors.New("order must be asc or desc")
)

const defaultPageSize = 10

// GalleryService serves cursor-paginated gallery queries and coordinates
// bulk deletion across storage and database. Stateless per call.
type GalleryService struct {
	store    database.Store
	provider storage.Provider
}

func NewGalleryService(store database.Store, provider storage.Provider) *GalleryService {
	return &GalleryService{store: store, provider: provider}
}

// ListImages returns one keyset-paginated page of the user's images. The
// cursor is the id of the last record of the previous page; pagination is
// always keyed on record id, so pages are only guaranteed stable when the
// sort key follows creation order (the uploadedAt default).
func (s *GalleryService) ListImages(ctx context.Context, userID uuid.UUID, query models.ListImagesQuery) (*models.ListImagesResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = models.SortByUploadedAt
	}
	switch sortBy {
	case models.SortByUploadedAt, models.SortByFileName, models.SortByFileSize:
	default:
		return nil, ErrInvalidSortKey
	}

	order := query.Order
	if order == "" {
		order = models.OrderDesc
	}
	if order != models.OrderAsc && order != models.OrderDesc {
		return nil, ErrInvalidOrder
	}

	var cursor *int64
	if query.Cursor != "" {
		id, err := strconv.ParseInt(query.Cursor, 10, 64)
		if err != nil {
			return nil, ErrInvalidCursor
		}
		cursor = &id
	}

	// Fetch one extra record to learn whether another page exists.
	images, err := s.store.ListImages(ctx, userID, database.ListImagesParams{
		Limit:  limit + 1,
		Cursor: cursor,
		SortBy: sortBy,
		Order:  order,
		Search: query.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	response := &models.ListImagesResponse{Items: images}
	if len(images) > limit {
		response.Items = images[:limit]
		response.HasNextPage = true
		next := strconv.FormatInt(response.Items[limit-1].ID, 10)
		response.NextCursor = &next
	}
	return response, nil
}

// DeleteImages removes the requested images from storage and the database.
// Storage deletions are attempted per address and soft-fail: a blob that
// cannot be removed is logged, and the database rows are deleted anyway.
// Identifiers that match no record are silently excluded from the result.
func (s *GalleryService) DeleteImages(ctx context.Context, ids []int64) ([]models.Image, error) {
	found, err := s.store.GetImagesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up images: %w", err)
	}
	if len(found) == 0 {
		return []models.Image{}, nil
	}

	urls := make([]string, len(found))
	for i, image := range found {
		urls[i] = image.FileURL
	}

	results, err := s.provider.DeleteMany(ctx, urls)
	if err != nil {
		log.Printf("gallery: bulk storage deletion failed: %v", err)
	}
	for i, ok := range results {
		if !ok {
			log.Printf("gallery: failed to delete %q from storage", urls[i])
		}
	}

	if err := s.store.DeleteImagesByIDs(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to delete image records: %w", err)
	}
	return found, nil
}
