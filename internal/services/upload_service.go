package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gallery-backend/internal/database"
	"gallery-backend/internal/events"
	"gallery-backend/internal/models"
	"gallery-backend/internal/storage"
)

// ErrEmptyBatch is returned when an upload is submitted with no files. No
// session is created in that case.
var ErrEmptyBatch = errors.New("upload batch is empty")

// Broadcaster pushes named events to all subscribers of a channel.
// Implemented by events.Hub.
type Broadcaster interface {
	Emit(channel, event string, payload any)
}

// Staged progress checkpoints emitted while a file is in flight.
var progressCheckpoints = []int{25, 50, 75}

// UploadService owns the upload-session lifecycle: it creates the session
// record, fans the batch out into concurrent per-file pipelines, and marks
// the session completed once every file has settled.
type UploadService struct {
	store         database.Store
	provider      storage.Provider
	broadcaster   Broadcaster
	uploadFolder  string
	progressDelay time.Duration
}

func NewUploadService(store database.Store, provider storage.Provider, broadcaster Broadcaster, uploadFolder string, progressDelay time.Duration) *UploadService {
	return &UploadService{
		store:         store,
		provider:      provider,
		broadcaster:   broadcaster,
		uploadFolder:  uploadFolder,
		progressDelay: progressDelay,
	}
}

// UploadResult reports the accepted batch. Images holds the successfully
// stored records; FileErrors maps a file's batch index to its failure.
type UploadResult struct {
	SessionID  string
	TotalFiles int
	Images     []models.Image
	FileErrors map[int]error
}

// UploadImages processes every file in the batch concurrently and
// independently. One file's failure neither aborts nor delays its
// siblings; the session settles as "completed" either way, and per-file
// outcomes are visible on the session's event channel.
func (s *UploadService) UploadImages(ctx context.Context, files []storage.File, userID uuid.UUID, sessionToken string) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, ErrEmptyBatch
	}

	if sessionToken == "" {
		sessionToken = uuid.NewString()
	}

	session, err := s.store.CreateSession(ctx, &models.UploadSession{
		SessionID:  sessionToken,
		UserID:     userID,
		TotalFiles: len(files),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upload session: %w", err)
	}

	channel := events.SessionChannel(sessionToken)
	s.broadcaster.Emit(channel, events.EventUploadProgress, models.ProgressEvent{
		FileIndex:  -1,
		FileName:   "Session Started",
		Status:     models.ProgressStatusSessionStarted,
		Progress:   0,
		TotalFiles: len(files),
	})

	type outcome struct {
		image *models.Image
		err   error
	}

	// Fan out one pipeline per file and join all of them, never failing
	// fast: every outcome is collected and inspected independently.
	outcomes := make([]outcome, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(index int, file storage.File) {
			defer wg.Done()
			image, err := s.processFile(ctx, file, index, session, channel)
			outcomes[index] = outcome{image: image, err: err}
		}(i, files[i])
	}
	wg.Wait()

	// The session is terminal once the batch has settled, regardless of
	// how many files made it.
	if err := s.store.UpdateSessionStatus(ctx, session.ID, models.SessionStatusCompleted); err != nil {
		log.Printf("upload: failed to mark session %s completed: %v", sessionToken, err)
	}

	s.broadcaster.Emit(channel, events.EventSessionCompleted, models.SessionCompletedEvent{
		SessionID:  sessionToken,
		TotalFiles: len(files),
		Status:     models.SessionStatusCompleted,
	})

	result := &UploadResult{
		SessionID:  sessionToken,
		TotalFiles: len(files),
		FileErrors: make(map[int]error),
	}
	for i, o := range outcomes {
		if o.err != nil {
			result.FileErrors[i] = o.err
			continue
		}
		result.Images = append(result.Images, *o.image)
	}
	return result, nil
}

// processFile runs the per-file pipeline: staged progress, storage upload,
// record persistence, counter increment, completion event. Any failure is
// reported on the event channel and returned; nothing is retried.
func (s *UploadService) processFile(ctx context.Context, file storage.File, index int, session *models.UploadSession, channel string) (*models.Image, error) {
	s.emitProgress(channel, index, file.Name, 0)

	for _, checkpoint := range progressCheckpoints {
		if s.progressDelay > 0 {
			time.Sleep(s.progressDelay)
		}
		s.emitProgress(channel, index, file.Name, checkpoint)
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), file.Name)
	fileURL, err := s.provider.Upload(ctx, file, s.uploadFolder, filename)
	if err != nil {
		return nil, s.failFile(channel, index, file.Name, fmt.Errorf("failed to store file: %w", err))
	}

	image, err := s.store.CreateImage(ctx, &models.Image{
		FileName:     filename,
		OriginalName: file.Name,
		FileSize:     int64(len(file.Data)),
		MimeType:     file.ContentType,
		FileURL:      fileURL,
		PublicID:     publicIDFromURL(fileURL),
		UserID:       session.UserID,
		SessionID:    session.ID,
	})
	if err != nil {
		return nil, s.failFile(channel, index, file.Name, fmt.Errorf("failed to persist image: %w", err))
	}

	if err := s.store.IncrementSessionProgress(ctx, session.ID); err != nil {
		return nil, s.failFile(channel, index, file.Name, fmt.Errorf("failed to update session progress: %w", err))
	}

	s.broadcaster.Emit(channel, events.EventFileProcessed, models.FileProcessedEvent{
		FileIndex: index,
		FileName:  file.Name,
		Status:    models.ProgressStatusCompleted,
		Progress:  100,
		ImageData: image,
	})
	return image, nil
}

func (s *UploadService) emitProgress(channel string, index int, name string, progress int) {
	s.broadcaster.Emit(channel, events.EventUploadProgress, models.ProgressEvent{
		FileIndex: index,
		FileName:  name,
		Status:    models.ProgressStatusProcessing,
		Progress:  progress,
	})
}

func (s *UploadService) failFile(channel string, index int, name string, err error) error {
	log.Printf("upload: file %d (%s) failed: %v", index, name, err)
	s.broadcaster.Emit(channel, events.EventUploadProgress, models.ProgressEvent{
		FileIndex: index,
		FileName:  name,
		Status:    models.ProgressStatusFailed,
		Error:     err.Error(),
	})
	return err
}

// publicIDFromURL derives the deletion handle from a storage URL: the last
// path segment without its extension.
func publicIDFromURL(fileURL string) string {
	base := path.Base(fileURL)
	return strings.TrimSuffix(base, path.Ext(base))
}
