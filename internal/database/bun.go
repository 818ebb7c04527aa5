package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenBun opens a relational database for url and verifies it with a ping.
// Caller should call db.Close().
func OpenBun(ctx context.Context, url string, timeout time.Duration) (*bun.DB, Driver, error) {
	driver, err := DetectDriver(url)
	if err != nil {
		return nil, "", err
	}

	var db *bun.DB
	switch driver {
	case DriverPostgres:
		sqldb, err := sql.Open("pgx", url)
		if err != nil {
			return nil, "", fmt.Errorf("open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, sqliteDSN(url))
		if err != nil {
			return nil, "", fmt.Errorf("open sqlite: %w", err)
		}
		// a single connection keeps :memory: databases shared and serializes writers
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, "", fmt.Errorf("driver %s is not relational", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("%s ping: %w", driver, err)
	}
	return db, driver, nil
}
