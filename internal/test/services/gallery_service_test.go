package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-backend/internal/database"
	"gallery-backend/internal/models"
	"gallery-backend/internal/services"
	"gallery-backend/internal/storage"
)

// seedImages stores count images for userID through the upload pipeline so
// ids and blobs line up, returning the provider for blob assertions.
func seedImages(t *testing.T, store *database.MemoryStore, provider *storage.MemoryProvider, userID uuid.UUID, count int) []models.Image {
	t.Helper()

	ctx := context.Background()
	session, err := store.CreateSession(ctx, &models.UploadSession{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		TotalFiles: count,
	})
	require.NoError(t, err)

	images := make([]models.Image, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("photo-%03d.jpg", i)
		url, err := provider.Upload(ctx, storage.File{Name: name, ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}}, "gallery-images", name)
		require.NoError(t, err)

		image, err := store.CreateImage(ctx, &models.Image{
			FileName:     name,
			OriginalName: name,
			FileSize:     int64(100 + i),
			MimeType:     "image/jpeg",
			FileURL:      url,
			PublicID:     name,
			UserID:       userID,
			SessionID:    session.ID,
		})
		require.NoError(t, err)
		images = append(images, *image)
	}
	return images
}

func newGalleryFixture() (*services.GalleryService, *database.MemoryStore, *storage.MemoryProvider) {
	store := database.NewMemoryStore()
	provider := storage.NewMemoryProvider()
	return services.NewGalleryService(store, provider), store, provider
}

func TestListImages_PaginationRoundTrip(t *testing.T) {
	service, store, provider := newGalleryFixture()
	userID := uuid.New()
	seedImages(t, store, provider, userID, 25)

	for _, order := range []string{models.OrderDesc, models.OrderAsc} {
		seen := make(map[int64]int)
		var collected []int64

		query := models.ListImagesQuery{Limit: 10, Order: order}
		for {
			page, err := service.ListImages(context.Background(), userID, query)
			require.NoError(t, err)
			for _, image := range page.Items {
				seen[image.ID]++
				collected = append(collected, image.ID)
			}
			if !page.HasNextPage {
				assert.Nil(t, page.NextCursor)
				break
			}
			require.NotNil(t, page.NextCursor)
			query.Cursor = *page.NextCursor
		}

		// Every record exactly once, in the requested order.
		assert.Len(t, seen, 25, "order %s", order)
		for id, n := range seen {
			assert.Equal(t, 1, n, "image %d seen %d times", id, n)
		}
		for i := 1; i < len(collected); i++ {
			if order == models.OrderAsc {
				assert.Less(t, collected[i-1], collected[i])
			} else {
				assert.Greater(t, collected[i-1], collected[i])
			}
		}
	}
}

func TestListImages_Defaults(t *testing.T) {
	service, store, provider := newGalleryFixture()
	userID := uuid.New()
	seedImages(t, store, provider, userID, 15)

	// Zero-valued query: limit 10, uploadedAt desc.
	page, err := service.ListImages(context.Background(), userID, models.ListImagesQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.True(t, page.HasNextPage)
	require.NotNil(t, page.NextCursor)
	for i := 1; i < len(page.Items); i++ {
		assert.Greater(t, page.Items[i-1].ID, page.Items[i].ID)
	}
}

func TestListImages_SortKeys(t *testing.T) {
	service, store, provider := newGalleryFixture()
	userID := uuid.New()
	seedImages(t, store, provider, userID, 5)

	page, err := service.ListImages(context.Background(), userID, models.ListImagesQuery{
		SortBy: models.SortByFileSize,
		Order:  models.OrderAsc,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	for i := 1; i < len(page.Items); i++ {
		assert.LessOrEqual(t, page.Items[i-1].FileSize, page.Items[i].FileSize)
	}

	page, err = service.ListImages(context.Background(), userID, models.ListImagesQuery{
		SortBy: models.SortByFileName,
		Order:  models.OrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	for i := 1; i < len(page.Items); i++ {
		assert.GreaterOrEqual(t, page.Items[i-1].FileName, page.Items[i].FileName)
	}
}

func TestListImages_Search(t *testing.T) {
	service, store, provider := newGalleryFixture()
	userID := uuid.New()
	seedImages(t, store, provider, userID, 12)

	// Substring match over filenames, case-insensitive.
	page, err := service.ListImages(context.Background(), userID, models.ListImagesQuery{Search: "PHOTO-00"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)

	page, err = service.ListImages(context.Background(), userID, models.ListImagesQuery{Search: "photo-011"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestListImages_NoMatches(t *testing.T) {
	service, store, provider := newGalleryFixture()
	userID := uuid.New()
	seedImages(t, store, provider, userID, 3)

	page, err := service.ListImages(context.Background(), userID, models.ListImagesQuery{Search: "no-such-file"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.NextCursor)
}

func TestListImages_ScopedToOwner(t *testing.T) {
	service, store, provider := newGalleryFixture()
	owner := uuid.New()
	other := uuid.New()
	seedImages(t, store, provider, owner, 4)
	seedImages(t, store, provider, other, 2)

	page, err := service.ListImages(context.Background(), owner, models.ListImagesQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
	for _, image := range page.Items {
		assert.Equal(t, owner, image.UserID)
	}
}

func TestListImages_InvalidParameters(t *testing.T) {
	service, _, _ := newGalleryFixture()
	userID := uuid.New()

	_, err := service.ListImages(context.Background(), userID, models.ListImagesQuery{Cursor: "not-a-number"})
	assert.ErrorIs(t, err, services.ErrInvalidCursor)

	_, err = service.ListImages(context.Background(), userID, models.ListImagesQuery{SortBy: "secret"})
	assert.ErrorIs(t, err, services.ErrInvalidSortKey)

	_, err = service.ListImages(context.Background(), userID, models.ListImagesQuery{Order: "sideways"})
	assert.ErrorIs(t, err, services.ErrInvalidOrder)
}

func TestDeleteImages_Idempotent(t *testing.T) {
	service, store, provider := newGalleryFixture()
	userID := uuid.New()
	images := seedImages(t, store, provider, userID, 3)

	ids := make([]int64, len(images))
	for i, image := range images {
		ids[i] = image.ID
	}

	deleted, err := service.DeleteImages(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, deleted, 3)
	assert.Equal(t, 0, provider.Len())

	// Same set again: nothing found, nothing fails hard.
	deleted, err = service.DeleteImages(context.Background(), ids)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestDeleteImages_UnknownIdsExcluded(t *testing.T) {
	service, store, provider := newGalleryFixture()
	userID := uuid.New()
	images := seedImages(t, store, provider, userID, 2)

	deleted, err := service.DeleteImages(context.Background(), []int64{images[0].ID, 9999})
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
	assert.Equal(t, images[0].ID, deleted[0].ID)

	// The other record is untouched.
	page, err := service.ListImages(context.Background(), userID, models.ListImagesQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
