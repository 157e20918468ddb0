package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	_ "github.com/lib/pq"
)

var (
	connectAttempts = retry.Attempts(5)
	connectDelay    = retry.Delay(400 * time.Millisecond)
	connectLastErr  = retry.LastErrorOnly(true)
)

// Open connects to dsn and waits for the server to answer, retrying while it starts up.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = retry.Do(func() error {
		return db.PingContext(ctx)
	},
		retry.Context(ctx), connectAttempts, connectDelay, connectLastErr,
		retry.OnRetry(func(n uint, err error) {
			slog.WarnContext(ctx, "database not ready", slog.Uint64("attempt", uint64(n+1)), slog.Any("error", err))
		}),
	)
	if err != nil {
		db.Close()
		return nil, unavailable("failed to ping database", err)
	}

	return db, nil
}
