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

type PostgresPlaylistStore struct {
	db    DB
	now   func() time.Time
	newID func() string
}

func NewPostgresPlaylistStore(db DB) *PostgresPlaylistStore {
	if db == nil {
		panic("db cannot be nil for PostgresPlaylistStore")
	}
	return &PostgresPlaylistStore{db: db, now: time.Now, newID: uuid.NewString}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanEntries(rows pgx.Rows) ([]models.PlaylistVideo, error) {
	defer rows.Close()

	entries := []models.PlaylistVideo{}
	for rows.Next() {
		var e models.PlaylistVideo
		if err := rows.Scan(&e.ID, &e.VideoID, &e.PlaylistID, &e.Order); err != nil {
			return nil, fmt.Errorf("failed to scan playlist video: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over playlist video rows: %w", err)
	}
	return entries, nil
}

func getEntries(ctx context.Context, q querier, playlistID string) ([]models.PlaylistVideo, error) {
	query := `
	SELECT id, video_id, playlist_id, sort_order
	FROM playlist_videos
	WHERE playlist_id = $1
	ORDER BY position
	`

	rows, err := q.Query(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	return scanEntries(rows)
}

func insertEntries(ctx context.Context, tx pgx.Tx, entries []models.PlaylistVideo) error {
	query := `
	INSERT INTO playlist_videos (playlist_id, position, id, video_id, sort_order)
	VALUES ($1, $2, $3, $4, $5)
	`
	for i, e := range entries {
		if _, err := tx.Exec(ctx, query, e.PlaylistID, i, e.ID, e.VideoID, e.Order); err != nil {
			return fmt.Errorf("failed to insert playlist video: %w", err)
		}
	}
	return nil
}

func (pg *PostgresPlaylistStore) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	rows, err := pg.db.Query(ctx, `
	SELECT id, title, description, created_at, updated_at
	FROM playlists
	ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		pl := models.Playlist{Videos: []models.PlaylistVideo{}}
		if err := rows.Scan(&pl.ID, &pl.Title, &pl.Description, &pl.CreatedAt, &pl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over playlist rows: %w", err)
	}

	entryRows, err := pg.db.Query(ctx, `
	SELECT id, video_id, playlist_id, sort_order
	FROM playlist_videos
	ORDER BY playlist_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	entries, err := scanEntries(entryRows)
	if err != nil {
		return nil, err
	}

	byPlaylist := make(map[string][]models.PlaylistVideo)
	for _, e := range entries {
		byPlaylist[e.PlaylistID] = append(byPlaylist[e.PlaylistID], e)
	}
	for i := range playlists {
		if videos, ok := byPlaylist[playlists[i].ID]; ok {
			playlists[i].Videos = videos
		}
	}

	return playlists, nil
}

func (pg *PostgresPlaylistStore) GetPlaylistByID(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var pl models.Playlist
	err := pg.db.QueryRow(ctx, `
	SELECT id, title, description, created_at, updated_at
	FROM playlists
	WHERE id = $1
	`, playlistID).Scan(&pl.ID, &pl.Title, &pl.Description, &pl.CreatedAt, &pl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	pl.Videos, err = getEntries(ctx, pg.db, playlistID)
	if err != nil {
		return nil, err
	}

	return &pl, nil
}

func (pg *PostgresPlaylistStore) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	now := pg.now()
	playlist.ID = pg.newID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	for i := range playlist.Videos {
		playlist.Videos[i].PlaylistID = playlist.ID
		if playlist.Videos[i].ID == "" {
			playlist.Videos[i].ID = pg.newID()
		}
	}

	tx, err := pg.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO playlists (id, title, description, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	`, playlist.ID, playlist.Title, playlist.Description, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	if err := insertEntries(ctx, tx, playlist.Videos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (pg *PostgresPlaylistStore) UpdatePlaylist(ctx context.Context, playlistID string, patch models.PlaylistPatch) (*models.Playlist, error) {
	tx, err := pg.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var pl models.Playlist
	err = tx.QueryRow(ctx, `
	SELECT id, title, description, created_at, updated_at
	FROM playlists
	WHERE id = $1
	FOR UPDATE
	`, playlistID).Scan(&pl.ID, &pl.Title, &pl.Description, &pl.CreatedAt, &pl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select playlist: %w", err)
	}

	pl.Videos, err = getEntries(ctx, tx, playlistID)
	if err != nil {
		return nil, err
	}

	pl.Apply(patch, pg.now(), pg.newID)

	_, err = tx.Exec(ctx, `
	UPDATE playlists
	SET title = $2, description = $3, updated_at = $4
	WHERE id = $1
	`, pl.ID, pl.Title, pl.Description, pl.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	if patch.Videos != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1`, playlistID); err != nil {
			return nil, fmt.Errorf("failed to clear playlist videos: %w", err)
		}
		if err := insertEntries(ctx, tx, pl.Videos); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &pl, nil
}

func (pg *PostgresPlaylistStore) DeletePlaylist(ctx context.Context, playlistID string) error {
	tag, err := pg.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, playlistID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
