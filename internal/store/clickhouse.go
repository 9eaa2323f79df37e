package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

type ClickhouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

func ConnectClickhouse(ctx context.Context, cfg ClickhouseConfig, logger *zap.Logger) (driver.Conn, error) {
	var conn driver.Conn
	var err error

	for i := 1; i <= connectAttempts; i++ {
		conn, err = clickhouse.Open(&clickhouse.Options{
			Addr: []string{cfg.Addr},
			Auth: clickhouse.Auth{
				Database: cfg.Database,
				Username: cfg.Username,
				Password: cfg.Password,
			},
			ClientInfo: clickhouse.ClientInfo{
				Products: []struct {
					Name    string
					Version string
				}{
					{Name: "vidplay", Version: "1.0"},
				},
			},
			DialTimeout: 5 * time.Second,
		})

		if err == nil {
			err = conn.Ping(ctx)
			if err == nil {
				logger.Info("connected to clickhouse")
				return conn, nil
			}
			conn.Close()
		}

		logger.Warn("clickhouse not ready", zap.Int("attempt", i), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}

	return nil, fmt.Errorf("could not connect to ClickHouse after multiple attempts: %w", err)
}

// MigrateClickhouse applies the golang-migrate migrations found in dir of
// migrationsFS.
func MigrateClickhouse(cfg ClickhouseConfig, migrationsFS fs.FS, dir string) error {
	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migration source error: %w", err)
	}

	query := url.Values{}
	query.Set("username", cfg.Username)
	query.Set("password", cfg.Password)
	query.Set("database", cfg.Database)
	query.Set("x-multi-statement", "true")

	dsn := url.URL{
		Scheme:   "clickhouse",
		Host:     cfg.Addr,
		RawQuery: query.Encode(),
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn.String())
	if err != nil {
		return fmt.Errorf("migration init error: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
