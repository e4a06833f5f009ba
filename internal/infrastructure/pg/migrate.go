package pg

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"goldprice/internal/infrastructure/logx"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	pgdriver "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const (
	pingAttempts = 30
	pingEvery    = 500 * time.Millisecond
)

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations brings the mirror schema up to date. A freshly started server
// is given pingAttempts*pingEvery to accept connections.
func RunMigrations(ctx context.Context, db *DB) error {
	sqldb, err := sql.Open("pgx", db.Pool.Config().ConnString())
	if err != nil {
		return fmt.Errorf("open sql db: %w", err)
	}
	defer sqldb.Close()

	wait := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(pingEvery), pingAttempts), ctx)
	if err := backoff.Retry(func() error { return sqldb.PingContext(ctx) }, wait); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	driver, err := pgdriver.WithInstance(sqldb, &pgdriver.Config{MigrationsTable: "gold_price_schema_migrations"})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("migrations version: %w", err)
	}
	logx.L().Info("schema_ready", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
