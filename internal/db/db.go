// internal/db/db.go
package db

import (
    "database/sql"
    "fmt"
    "log"

    _ "github.com/lib/pq"

    "github.com/webasthetic/leadmailer-backend/internal/config"
)

// Connect opens a Postgres pool for the lead store. The pool is returned
// rather than stored in a package global so callers own its lifetime.
func Connect(cfg config.Database) (*sql.DB, error) {
    dsn := fmt.Sprintf(
        "postgres://%s:%s@%s:%s/%s?sslmode=%s",
        cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
    )

    conn, err := sql.Open("postgres", dsn)
    if err != nil {
        return nil, fmt.Errorf("failed to connect to DB: %w", err)
    }

    if err = conn.Ping(); err != nil {
        conn.Close()
        return nil, fmt.Errorf("failed to ping DB: %w", err)
    }

    log.Println("✅ Connected to database", cfg.Name)
    return conn, nil
}
