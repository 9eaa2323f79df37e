package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grvbrk/vidplay/internal/models"
	"github.com/jackc/pgx/v5"
)

type PostgresVideoStore struct {
	db    DB
	now   func() time.Time
	newID func() string
}

func NewPostgresVideoStore(db DB) *PostgresVideoStore {
	if db == nil {
		panic("db cannot be nil for PostgresVideoStore")
	}
	return &PostgresVideoStore{db: db, now: time.Now, newID: uuid.NewString}
}

const videoColumns = `id, title, description, duration, category, url, thumbnail_url, created_at, updated_at`

func scanVideo(row rowScanner, video *models.Video) error {
	return row.Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.Duration,
		&video.Category,
		&video.URL,
		&video.ThumbnailURL,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
}

func (pg *PostgresVideoStore) GetVideos(ctx context.Context) ([]models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY seq`

	rows, err := pg.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var video models.Video
		if err := scanVideo(rows, &video); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over video rows: %w", err)
	}

	return videos, nil
}

func (pg *PostgresVideoStore) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	var video models.Video
	err := scanVideo(pg.db.QueryRow(ctx, query, videoID), &video)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &video, nil
}

func (pg *PostgresVideoStore) CreateVideo(ctx context.Context, video *models.Video) error {
	now := pg.now()
	video.ID = pg.newID()
	video.CreatedAt = now
	video.UpdatedAt = now

	query := `
	INSERT INTO videos (` + videoColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := pg.db.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.Duration,
		video.Category,
		video.URL,
		video.ThumbnailURL,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

func (pg *PostgresVideoStore) UpdateVideo(ctx context.Context, videoID string, patch models.VideoPatch) (*models.Video, error) {
	tx, err := pg.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1 FOR UPDATE`

	var video models.Video
	err = scanVideo(tx.QueryRow(ctx, query, videoID), &video)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select video: %w", err)
	}

	video.Apply(patch, pg.now())

	query = `
	UPDATE videos
	SET title = $2, description = $3, duration = $4, category = $5, url = $6, thumbnail_url = $7, updated_at = $8
	WHERE id = $1
	`

	_, err = tx.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.Duration,
		video.Category,
		video.URL,
		video.ThumbnailURL,
		video.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &video, nil
}

func (pg *PostgresVideoStore) DeleteVideo(ctx context.Context, videoID string) error {
	tag, err := pg.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
