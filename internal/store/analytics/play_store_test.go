package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn implements the parts of driver.Conn the play store calls.
type fakeConn struct {
	driver.Conn

	execQuery string
	execArgs  []any
	execErr   error

	count uint64
	rows  []Play
}

func (f *fakeConn) Exec(ctx context.Context, query string, args ...any) error {
	f.execQuery = query
	f.execArgs = args
	return f.execErr
}

func (f *fakeConn) QueryRow(ctx context.Context, query string, args ...any) driver.Row {
	return &fakeRow{count: f.count}
}

func (f *fakeConn) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	return &fakeRows{plays: f.rows, pos: -1}, nil
}

type fakeRow struct {
	driver.Row
	count uint64
}

func (r *fakeRow) Err() error { return nil }

func (r *fakeRow) Scan(dest ...any) error {
	p, ok := dest[0].(*uint64)
	if !ok {
		return fmt.Errorf("unexpected scan target %T", dest[0])
	}
	*p = r.count
	return nil
}

type fakeRows struct {
	driver.Rows
	plays []Play
	pos   int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.plays)
}

func (r *fakeRows) Scan(dest ...any) error {
	p := r.plays[r.pos]
	*dest[0].(*string) = p.VideoID
	*dest[1].(*string) = p.PlaylistID
	*dest[2].(*time.Time) = p.PlayedAt
	return nil
}

func (r *fakeRows) Err() error   { return nil }
func (r *fakeRows) Close() error { return nil }

func TestClickhousePlayStoreRecordPlay(t *testing.T) {
	conn := &fakeConn{}
	s := NewClickhousePlayStore(conn)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordPlay(context.Background(), Play{VideoID: "1", PlaylistID: "p", PlayedAt: at}))
	assert.Contains(t, conn.execQuery, "INSERT INTO video_plays")
	assert.Equal(t, []any{"1", "p", at}, conn.execArgs)

	conn.execErr = errors.New("broken pipe")
	err := s.RecordPlay(context.Background(), Play{VideoID: "1"})
	assert.ErrorIs(t, err, conn.execErr)
}

func TestClickhousePlayStoreGetVideoPlays(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	conn := &fakeConn{
		count: 7,
		rows: []Play{
			{VideoID: "1", PlaylistID: "a", PlayedAt: at.Add(time.Minute)},
			{VideoID: "1", PlaylistID: "b", PlayedAt: at},
		},
	}

	got, err := NewClickhousePlayStore(conn).GetVideoPlays(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Total)
	require.Len(t, got.Recent, 2)
	assert.Equal(t, "a", got.Recent[0].PlaylistID)
}

func TestMemoryPlayStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPlayStore()

	got, err := s.GetVideoPlays(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, got.Total)
	assert.NotNil(t, got.Recent)

	for i := range recentPlaysLimit + 5 {
		require.NoError(t, s.RecordPlay(ctx, Play{VideoID: "1", PlaylistID: fmt.Sprint(i)}))
	}
	require.NoError(t, s.RecordPlay(ctx, Play{VideoID: "2"}))

	got, err = s.GetVideoPlays(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, uint64(recentPlaysLimit+5), got.Total)
	assert.Len(t, got.Recent, recentPlaysLimit)
	assert.Equal(t, fmt.Sprint(recentPlaysLimit+4), got.Recent[0].PlaylistID)
}
