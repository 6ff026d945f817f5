package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadSession tracks one multi-file upload batch from submission to
// settlement. The status reflects "batch finished", not "all files
// succeeded" — inspect per-file events or the stored images for that.
type UploadSession struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"sessionId"`
	UserID         uuid.UUID `json:"userId"`
	TotalFiles     int       `json:"totalFiles"`
	CompletedFiles int       `json:"completedFiles"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Session status values.
const (
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusFailed     = "failed"
)

// Image is one stored gallery image. Records are immutable after creation;
// the ID is store-assigned and strictly increasing, which is what cursor
// pagination keys on.
type Image struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	FileURL      string    `json:"fileURL"`
	PublicID     string    `json:"publicId"`
	UserID       uuid.UUID `json:"userId"`
	SessionID    int64     `json:"sessionId"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
