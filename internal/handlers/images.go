package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gallery-backend/internal/middleware"
	"gallery-backend/internal/models"
	"gallery-backend/internal/services"
	"gallery-backend/internal/storage"
	"gallery-backend/internal/validation"
)

type ImagesHandler struct {
	uploadService  *services.UploadService
	galleryService *services.GalleryService
	validationOpts validation.Options
}

func NewImagesHandler(uploadService *services.UploadService, galleryService *services.GalleryService, validationOpts validation.Options) *ImagesHandler {
	return &ImagesHandler{
		uploadService:  uploadService,
		galleryService: galleryService,
		validationOpts: validationOpts,
	}
}

// Upload godoc
// @Summary     Upload a batch of images
// @Description Validates the whole batch up front (size, MIME type, extension, magic numbers),
// @Description then processes every file concurrently. Per-file progress is broadcast on the
// @Description session's websocket channel; a partially failing batch still returns 200 —
// @Description consult the event stream for individual outcomes.
// @Tags        images
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       images formData file true "Image files (multiple allowed)"
// @Param       session_id formData string false "Client-chosen session token to subscribe before uploading"
// @Success     200 {object} models.UploadImagesResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /images [post]
func (h *ImagesHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	form := c.Request.MultipartForm
	if form == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "multipart form is required"})
		return
	}

	var fileHeaders []*multipart.FileHeader
	for _, fieldName := range []string{"images", "files"} {
		if f := form.File[fieldName]; len(f) > 0 {
			fileHeaders = f
			break
		}
	}
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no files uploaded",
			Message: "provide files under the \"images\" form field",
		})
		return
	}

	files := make([]storage.File, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := readUploadedFile(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read uploaded file",
				Message: err.Error(),
			})
			return
		}
		files = append(files, file)
	}

	// Batch-level pre-check: one invalid file rejects the whole request
	// before any session exists.
	if err := validation.ValidateBatch(files, h.validationOpts); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "file validation failed",
			Message: err.Error(),
		})
		return
	}

	result, err := h.uploadService.UploadImages(c.Request.Context(), files, userID, c.PostForm("session_id"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyBatch) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no files uploaded"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to process upload",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.UploadImagesResponse{
		SessionID:  result.SessionID,
		TotalFiles: result.TotalFiles,
	})
}

// List godoc
// @Summary     List gallery images
// @Description Cursor-paginated listing of the authenticated user's images with optional
// @Description filename search and sorting.
// @Tags        images
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       limit query int false "Page size" default(10)
// @Param       cursor query string false "Opaque cursor from the previous page"
// @Param       sortBy query string false "Sort key: uploadedAt, fileName or fileSize" default(uploadedAt)
// @Param       order query string false "Sort direction: asc or desc" default(desc)
// @Param       search query string false "Case-insensitive filename substring"
// @Success     200 {object} models.ListImagesResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /images [get]
func (h *ImagesHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var query models.ListImagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid query parameters",
			Message: err.Error(),
		})
		return
	}
	if query.Limit < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "limit must be positive"})
		return
	}

	response, err := h.galleryService.ListImages(c.Request.Context(), userID, query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCursor) ||
			errors.Is(err, services.ErrInvalidSortKey) ||
			errors.Is(err, services.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list images",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// BulkDelete godoc
// @Summary     Bulk delete images
// @Description Deletes the requested images from storage and the database. Storage
// @Description deletions soft-fail; identifiers that match no record count as failed.
// @Tags        images
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.BulkDeleteImagesRequest true "Image ids to delete"
// @Success     200 {object} models.BulkDeleteImagesResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /images/bulk-delete [delete]
func (h *ImagesHandler) BulkDelete(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var request models.BulkDeleteImagesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "imageIds must be a non-empty array of numbers",
			Message: err.Error(),
		})
		return
	}

	deleted, err := h.galleryService.DeleteImages(c.Request.Context(), request.ImageIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete images",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.BulkDeleteImagesResponse{
		Message:      "Images deleted successfully",
		DeletedCount: len(deleted),
		FailedCount:  len(request.ImageIDs) - len(deleted),
	})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func readUploadedFile(header *multipart.FileHeader) (storage.File, error) {
	src, err := header.Open()
	if err != nil {
		return storage.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return storage.File{}, err
	}

	return storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
