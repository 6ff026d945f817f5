package models

// UploadImagesRequest carries the optional form fields accompanying the
// multipart payload. The client may pin its own session token so it can
// subscribe to progress before the request even returns.
type UploadImagesRequest struct {
	SessionID string `form:"session_id"`
}

// ListImagesQuery is the parsed query string for GET /images.
type ListImagesQuery struct {
	Limit  int    `form:"limit"`
	Cursor string `form:"cursor"`
	SortBy string `form:"sortBy"`
	Order  string `form:"order"`
	Search string `form:"search"`
}

// Accepted sort keys and directions for ListImagesQuery.
const (
	SortByUploadedAt = "uploadedAt"
	SortByFileName   = "fileName"
	SortByFileSize   = "fileSize"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type BulkDeleteImagesRequest struct {
	ImageIDs []int64 `json:"imageIds" binding:"required,min=1"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
