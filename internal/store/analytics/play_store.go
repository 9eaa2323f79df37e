package analytics

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const recentPlaysLimit = 20

type Play struct {
	VideoID    string    `json:"videoId"`
	PlaylistID string    `json:"playlistId"`
	PlayedAt   time.Time `json:"playedAt"`
}

type VideoPlays struct {
	VideoID string `json:"videoId"`
	Total   uint64 `json:"total"`
	Recent  []Play `json:"recent"`
}

// PlayStore records which videos were put in front of a viewer.
type PlayStore interface {
	RecordPlay(ctx context.Context, play Play) error
	GetVideoPlays(ctx context.Context, videoID string) (*VideoPlays, error)
}

type ClickhousePlayStore struct {
	conn driver.Conn
}

func NewClickhousePlayStore(conn driver.Conn) *ClickhousePlayStore {
	return &ClickhousePlayStore{conn: conn}
}

func (c *ClickhousePlayStore) RecordPlay(ctx context.Context, play Play) error {
	query := `
		INSERT INTO video_plays (video_id, playlist_id, played_at)
		VALUES (?, ?, ?)
	`

	if err := c.conn.Exec(ctx, query, play.VideoID, play.PlaylistID, play.PlayedAt); err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

func (c *ClickhousePlayStore) GetVideoPlays(ctx context.Context, videoID string) (*VideoPlays, error) {
	result := &VideoPlays{VideoID: videoID, Recent: []Play{}}

	err := c.conn.QueryRow(ctx, `SELECT count() FROM video_plays WHERE video_id = ?`, videoID).Scan(&result.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to count plays: %w", err)
	}

	query := `
		SELECT video_id, playlist_id, played_at
		FROM video_plays
		WHERE video_id = ?
		ORDER BY played_at DESC
		LIMIT ?
	`

	rows, err := c.conn.Query(ctx, query, videoID, recentPlaysLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get plays: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var play Play
		if err := rows.Scan(&play.VideoID, &play.PlaylistID, &play.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		result.Recent = append(result.Recent, play)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over play rows: %w", err)
	}

	return result, nil
}

// MemoryPlayStore is used when no ClickHouse server is configured. It keeps
// every play for the lifetime of the process.
type MemoryPlayStore struct {
	mu    sync.RWMutex
	plays []Play
}

func NewMemoryPlayStore() *MemoryPlayStore {
	return &MemoryPlayStore{}
}

func (m *MemoryPlayStore) RecordPlay(ctx context.Context, play Play) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays = append(m.plays, play)
	return nil
}

func (m *MemoryPlayStore) GetVideoPlays(ctx context.Context, videoID string) (*VideoPlays, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := &VideoPlays{VideoID: videoID, Recent: []Play{}}
	for _, p := range slices.Backward(m.plays) {
		if p.VideoID != videoID {
			continue
		}
		result.Total++
		if len(result.Recent) < recentPlaysLimit {
			result.Recent = append(result.Recent, p)
		}
	}
	return result, nil
}
