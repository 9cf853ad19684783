package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a postgres handle, configures the pool and verifies the
// connection within the given timeout.
func Connect(dsn string, timeout time.Duration) (*sql.DB, error) {
	handle, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database handle: %w", err)
	}

	handle.SetMaxOpenConns(10)
	handle.SetMaxIdleConns(10)
	handle.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("ping database within %v: %w", timeout, err)
	}
	return handle, nil
}
