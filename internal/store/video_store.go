package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grvbrk/vidplay/internal/models"
)

type VideoStore interface {
	GetVideos(ctx context.Context) ([]models.Video, error)
	GetVideoByID(ctx context.Context, videoID string) (*models.Video, error)
	CreateVideo(ctx context.Context, video *models.Video) error
	UpdateVideo(ctx context.Context, videoID string, patch models.VideoPatch) (*models.Video, error)
	DeleteVideo(ctx context.Context, videoID string) error
}

// MemoryVideoStore keeps videos in insertion order for the lifetime of the
// process.
type MemoryVideoStore struct {
	mu     sync.RWMutex
	videos []models.Video
	now    func() time.Time
	newID  func() string
}

func NewMemoryVideoStore(seed ...models.Video) *MemoryVideoStore {
	return &MemoryVideoStore{
		videos: slices.Clone(seed),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (m *MemoryVideoStore) indexOf(videoID string) int {
	return slices.IndexFunc(m.videos, func(v models.Video) bool {
		return v.ID == videoID
	})
}

func (m *MemoryVideoStore) GetVideos(ctx context.Context) ([]models.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	videos := make([]models.Video, len(m.videos))
	copy(videos, m.videos)
	return videos, nil
}

func (m *MemoryVideoStore) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(videoID)
	if i == -1 {
		return nil, ErrNotFound
	}
	video := m.videos[i]
	return &video, nil
}

func (m *MemoryVideoStore) CreateVideo(ctx context.Context, video *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	video.ID = m.newID()
	video.CreatedAt = now
	video.UpdatedAt = now

	m.videos = append(m.videos, *video)
	return nil
}

func (m *MemoryVideoStore) UpdateVideo(ctx context.Context, videoID string, patch models.VideoPatch) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(videoID)
	if i == -1 {
		return nil, ErrNotFound
	}

	m.videos[i].Apply(patch, m.now())
	video := m.videos[i]
	return &video, nil
}

func (m *MemoryVideoStore) DeleteVideo(ctx context.Context, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(videoID)
	if i == -1 {
		return ErrNotFound
	}

	m.videos = slices.Delete(m.videos, i, i+1)
	return nil
}
