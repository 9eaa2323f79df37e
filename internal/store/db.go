package store

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// DB is the subset of *pgxpool.Pool the Postgres stores use. It lets tests
// swap in pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	connectAttempts = 10
	connectBackoff  = 3 * time.Second
)

func ConnectPGDB(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	for i := 1; i <= connectAttempts; i++ {
		pool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			logger.Warn("failed to open DB", zap.Int("attempt", i), zap.Error(err))
		} else {
			err = pool.Ping(ctx)
			if err == nil {
				logger.Info("connected to database")
				return pool, nil
			}
			pool.Close()
			logger.Warn("DB not ready", zap.Int("attempt", i), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}

	return nil, fmt.Errorf("could not connect to database after multiple attempts: %w", err)
}

// MigrateFS applies the goose migrations found in dir of migrationsFS.
func MigrateFS(pool *pgxpool.Pool, migrationsFS fs.FS, dir string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	defer func() {
		goose.SetBaseFS(nil)
	}()

	err := goose.SetDialect("postgres")
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	err = goose.Up(db, dir)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
