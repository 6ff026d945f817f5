package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gallery-backend/internal/models"
)

// Client implements Store on PostgreSQL.
type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

// DB exposes the underlying pool for the migrator.
func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) CreateSession(ctx context.Context, session *models.UploadSession) (*models.UploadSession, error) {
	var created models.UploadSession
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO upload_sessions (session_id, user_id, total_files, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, user_id, total_files, completed_files, status, created_at
	`, session.SessionID, session.UserID, session.TotalFiles, models.SessionStatusProcessing).Scan(
		&created.ID, &created.SessionID, &created.UserID,
		&created.TotalFiles, &created.CompletedFiles, &created.Status, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload session: %w", err)
	}

	return &created, nil
}

func (c *Client) GetSession(ctx context.Context, id int64) (*models.UploadSession, error) {
	var session models.UploadSession
	err := c.db.QueryRowContext(ctx, `
		SELECT id, session_id, user_id, total_files, completed_files, status, created_at
		FROM upload_sessions
		WHERE id = $1
	`, id).Scan(
		&session.ID, &session.SessionID, &session.UserID,
		&session.TotalFiles, &session.CompletedFiles, &session.Status, &session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get upload session: %w", err)
	}

	return &session, nil
}

// IncrementSessionProgress relies on the database to serialize the
// increment, so concurrent per-file pipelines never lose an update.
func (c *Client) IncrementSessionProgress(ctx context.Context, id int64) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE upload_sessions
		SET completed_files = completed_files + 1
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to increment session progress: %w", err)
	}
	return nil
}

func (c *Client) UpdateSessionStatus(ctx context.Context, id int64, status string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE upload_sessions
		SET status = $1
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	return nil
}

func (c *Client) CreateImage(ctx context.Context, image *models.Image) (*models.Image, error) {
	var created models.Image
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO images (file_name, original_name, file_size, mime_type, file_url, public_id, user_id, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, file_name, original_name, file_size, mime_type, file_url, public_id, user_id, session_id, uploaded_at
	`, image.FileName, image.OriginalName, image.FileSize, image.MimeType,
		image.FileURL, image.PublicID, image.UserID, image.SessionID).Scan(
		&created.ID, &created.FileName, &created.OriginalName, &created.FileSize,
		&created.MimeType, &created.FileURL, &created.PublicID, &created.UserID,
		&created.SessionID, &created.UploadedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	return &created, nil
}

func (c *Client) ListImages(ctx context.Context, userID uuid.UUID, params ListImagesParams) ([]models.Image, error) {
	query := `
		SELECT id, file_name, original_name, file_size, mime_type, file_url, public_id, user_id, session_id, uploaded_at
		FROM images
		WHERE user_id = $1`
	args := []any{userID}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		query += fmt.Sprintf(" AND (file_name ILIKE $%d OR original_name ILIKE $%d)", len(args), len(args))
	}

	direction := "DESC"
	cursorOp := "<"
	if params.Order == models.OrderAsc {
		direction = "ASC"
		cursorOp = ">"
	}

	if params.Cursor != nil {
		args = append(args, *params.Cursor)
		query += fmt.Sprintf(" AND id %s $%d", cursorOp, len(args))
	}

	// Secondary order on id keeps pages deterministic when the sort field
	// has duplicates.
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", sortColumn(params.SortBy), direction, direction)

	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := make([]models.Image, 0, params.Limit)
	for rows.Next() {
		var image models.Image
		err := rows.Scan(
			&image.ID, &image.FileName, &image.OriginalName, &image.FileSize,
			&image.MimeType, &image.FileURL, &image.PublicID, &image.UserID,
			&image.SessionID, &image.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	return images, nil
}

func (c *Client) GetImagesByIDs(ctx context.Context, ids []int64) ([]models.Image, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, file_name, original_name, file_size, mime_type, file_url, public_id, user_id, session_id, uploaded_at
		FROM images
		WHERE id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var image models.Image
		err := rows.Scan(
			&image.ID, &image.FileName, &image.OriginalName, &image.FileSize,
			&image.MimeType, &image.FileURL, &image.PublicID, &image.UserID,
			&image.SessionID, &image.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}

	return images, nil
}

func (c *Client) DeleteImagesByIDs(ctx context.Context, ids []int64) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM images
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case models.SortByFileName:
		return "file_name"
	case models.SortByFileSize:
		return "file_size"
	default:
		return "uploaded_at"
	}
}
