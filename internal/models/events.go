package models

// Progress event status values. SessionStarted is emitted once with
// FileIndex -1 before any per-file work begins.
const (
	ProgressStatusSessionStarted = "session_started"
	ProgressStatusProcessing     = "processing"
	ProgressStatusCompleted      = "completed"
	ProgressStatusFailed         = "failed"
)

// ProgressEvent is the transient payload broadcast while a file moves
// through the upload pipeline. It is never persisted.
type ProgressEvent struct {
	FileIndex  int    `json:"fileIndex"`
	FileName   string `json:"fileName"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Error      string `json:"error,omitempty"`
	TotalFiles int    `json:"totalFiles,omitempty"`
}

// FileProcessedEvent is broadcast exactly once per successfully stored
// file, carrying the persisted record.
type FileProcessedEvent struct {
	FileIndex int    `json:"fileIndex"`
	FileName  string `json:"fileName"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	ImageData *Image `json:"imageData"`
}

// SessionCompletedEvent is the terminal event for a session, emitted after
// every per-file task has settled.
type SessionCompletedEvent struct {
	SessionID  string `json:"sessionId"`
	TotalFiles int    `json:"totalFiles"`
	Status     string `json:"status"`
}
