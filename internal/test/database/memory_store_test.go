package database_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-backend/internal/database"
	"gallery-backend/internal/models"
)

func seedStore(t *testing.T, store *database.MemoryStore, userID uuid.UUID, count int) {
	t.Helper()
	ctx := context.Background()

	session, err := store.CreateSession(ctx, &models.UploadSession{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		TotalFiles: count,
	})
	require.NoError(t, err)

	for i := 0; i < count; i++ {
		_, err := store.CreateImage(ctx, &models.Image{
			FileName:     fmt.Sprintf("img-%02d.jpg", i),
			OriginalName: fmt.Sprintf("img-%02d.jpg", i),
			FileSize:     64, // identical sizes exercise the id tiebreak
			MimeType:     "image/jpeg",
			FileURL:      fmt.Sprintf("memory://gallery-images/img-%02d.jpg", i),
			PublicID:     fmt.Sprintf("img-%02d", i),
			UserID:       userID,
			SessionID:    session.ID,
		})
		require.NoError(t, err)
	}
}

func TestMemoryStore_IdsAreMonotonic(t *testing.T) {
	store := database.NewMemoryStore()
	userID := uuid.New()
	seedStore(t, store, userID, 5)

	images, err := store.ListImages(context.Background(), userID, database.ListImagesParams{
		Limit: 10, SortBy: models.SortByUploadedAt, Order: models.OrderAsc,
	})
	require.NoError(t, err)
	require.Len(t, images, 5)
	for i := 1; i < len(images); i++ {
		assert.Greater(t, images[i].ID, images[i-1].ID)
	}
}

func TestMemoryStore_CursorIsStrict(t *testing.T) {
	store := database.NewMemoryStore()
	userID := uuid.New()
	seedStore(t, store, userID, 5)

	cursor := int64(3)

	images, err := store.ListImages(context.Background(), userID, database.ListImagesParams{
		Limit: 10, SortBy: models.SortByUploadedAt, Order: models.OrderAsc, Cursor: &cursor,
	})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, int64(4), images[0].ID)

	images, err = store.ListImages(context.Background(), userID, database.ListImagesParams{
		Limit: 10, SortBy: models.SortByUploadedAt, Order: models.OrderDesc, Cursor: &cursor,
	})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, int64(2), images[0].ID)
}

func TestMemoryStore_EqualSortValuesTiebreakOnID(t *testing.T) {
	store := database.NewMemoryStore()
	userID := uuid.New()
	seedStore(t, store, userID, 4)

	// All file sizes are equal; ordering must still be deterministic.
	images, err := store.ListImages(context.Background(), userID, database.ListImagesParams{
		Limit: 10, SortBy: models.SortByFileSize, Order: models.OrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, images, 4)
	for i := 1; i < len(images); i++ {
		assert.Greater(t, images[i-1].ID, images[i].ID)
	}
}

func TestMemoryStore_SearchMatchesEitherName(t *testing.T) {
	store := database.NewMemoryStore()
	userID := uuid.New()
	ctx := context.Background()

	session, err := store.CreateSession(ctx, &models.UploadSession{SessionID: "s", UserID: userID, TotalFiles: 1})
	require.NoError(t, err)

	_, err = store.CreateImage(ctx, &models.Image{
		FileName:     "1700000000-beach.jpg",
		OriginalName: "Holiday Snapshot.jpg",
		FileSize:     10,
		MimeType:     "image/jpeg",
		FileURL:      "memory://gallery-images/beach.jpg",
		PublicID:     "beach",
		UserID:       userID,
		SessionID:    session.ID,
	})
	require.NoError(t, err)

	for _, search := range []string{"BEACH", "holiday snap"} {
		images, err := store.ListImages(ctx, userID, database.ListImagesParams{
			Limit: 10, SortBy: models.SortByUploadedAt, Order: models.OrderDesc, Search: search,
		})
		require.NoError(t, err)
		assert.Len(t, images, 1, "search %q", search)
	}
}

func TestMemoryStore_ConcurrentProgressIncrements(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()

	session, err := store.CreateSession(ctx, &models.UploadSession{SessionID: "s", UserID: uuid.New(), TotalFiles: 50})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.IncrementSessionProgress(ctx, session.ID))
		}()
	}
	wg.Wait()

	updated, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, updated.CompletedFiles)
}

func TestMemoryStore_DeleteByIDs(t *testing.T) {
	store := database.NewMemoryStore()
	userID := uuid.New()
	seedStore(t, store, userID, 3)

	found, err := store.GetImagesByIDs(context.Background(), []int64{1, 3, 42})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	require.NoError(t, store.DeleteImagesByIDs(context.Background(), []int64{1, 3, 42}))

	remaining, err := store.ListImages(context.Background(), userID, database.ListImagesParams{
		Limit: 10, SortBy: models.SortByUploadedAt, Order: models.OrderAsc,
	})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(2), remaining[0].ID)
}
