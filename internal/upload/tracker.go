package upload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Status string

const (
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const (
	progressStep     = 5
	progressCap      = 95
	defaultRetention = 10 * time.Minute
)

var (
	ErrNotFound = errors.New("upload not found")
	ErrClosed   = errors.New("upload tracker closed")
)

type Upload struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
	VideoID  string `json:"videoId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Finish runs once the simulated transfer is over and returns the id of the
// video it created.
type Finish func(ctx context.Context) (string, error)

// Tracker simulates upload progress. Each upload gets its own goroutine that
// bumps progress every tick until the transfer duration elapses. Finished
// uploads stay readable for the retention period, then they are dropped.
type Tracker struct {
	mu        sync.RWMutex
	uploads   map[string]*Upload
	closed    bool
	tick      time.Duration
	duration  time.Duration
	retention time.Duration
	logger    *zap.Logger
	newID     func() string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTracker(tick, duration, retention time.Duration, logger *zap.Logger) *Tracker {
	if retention <= 0 {
		retention = defaultRetention
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		uploads:   make(map[string]*Upload),
		tick:      tick,
		duration:  duration,
		retention: retention,
		logger:    logger,
		newID:     uuid.NewString,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start registers a new upload and runs it in the background. finish is
// called with the tracker's context, which Close cancels.
func (t *Tracker) Start(fileName string, size int64, finish Finish) (Upload, error) {
	u := &Upload{
		ID:       t.newID(),
		FileName: fileName,
		Size:     size,
		Status:   StatusUploading,
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return Upload{}, ErrClosed
	}
	t.uploads[u.ID] = u
	snapshot := *u
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		t.run(u.ID, finish)
		t.expire(u.ID)
	}()

	return snapshot, nil
}

// Close cancels uploads still in flight and waits for their goroutines.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}

func (t *Tracker) run(id string, finish Finish) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	done := time.NewTimer(t.duration)
	defer done.Stop()

	for {
		select {
		case <-t.ctx.Done():
			t.fail(id, t.ctx.Err())
			return
		case <-ticker.C:
			t.update(id, func(u *Upload) {
				u.Progress = min(u.Progress+progressStep, progressCap)
			})
		case <-done.C:
			videoID, err := finish(t.ctx)
			if err != nil {
				t.fail(id, err)
				return
			}
			t.update(id, func(u *Upload) {
				u.Progress = 100
				u.Status = StatusCompleted
				u.VideoID = videoID
			})
			t.logger.Info("upload completed", zap.String("upload_id", id), zap.String("video_id", videoID))
			return
		}
	}
}

func (t *Tracker) expire(id string) {
	timer := time.NewTimer(t.retention)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-t.ctx.Done():
	}

	t.mu.Lock()
	delete(t.uploads, id)
	t.mu.Unlock()
}

func (t *Tracker) fail(id string, err error) {
	t.update(id, func(u *Upload) {
		u.Status = StatusFailed
		u.Error = err.Error()
	})
	t.logger.Error("upload failed", zap.String("upload_id", id), zap.Error(err))
}

func (t *Tracker) update(id string, fn func(u *Upload)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if u, ok := t.uploads[id]; ok {
		fn(u)
	}
}

func (t *Tracker) Get(id string) (Upload, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	u, ok := t.uploads[id]
	if !ok {
		return Upload{}, ErrNotFound
	}
	return *u, nil
}
