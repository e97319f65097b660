package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the bookings database and verifies the connection.
// Pool limits are sized for the batch runner's bounded fan-out, not a
// request-serving workload.
func Open(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bookings db: open: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("bookings db: ping: %w", err)
	}

	return conn, nil
}
