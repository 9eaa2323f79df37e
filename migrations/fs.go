package migrations

import "embed"

// FS holds the goose migrations for Postgres.
//
//go:embed *.sql
var FS embed.FS

// AnalyticsFS holds the golang-migrate migrations for ClickHouse under
// analytics/.
//
//go:embed analytics/*.sql
var AnalyticsFS embed.FS
