package models

// UploadImagesResponse acknowledges that a batch was accepted. A partially
// failing batch still gets this response — per-file outcomes arrive on the
// session's event channel.
type UploadImagesResponse struct {
	SessionID  string `json:"sessionId"`
	TotalFiles int    `json:"totalFiles"`
}

// ListImagesResponse is one cursor page of gallery images.
type ListImagesResponse struct {
	Items       []Image `json:"items"`
	HasNextPage bool    `json:"hasNextPage"`
	NextCursor  *string `json:"nextCursor"`
}

type BulkDeleteImagesResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
	FailedCount  int    `json:"failedCount"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
