// Package postgres opens the relational store and owns the schema the
// workflow stores rely on.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lib/pq"

	"bankeu/internal/platform/config"
)

//go:embed schema/schema.sql
var schemaSQL string

// Schema returns the DDL for the workflow tables.
func Schema() string {
	return schemaSQL
}

// Open connects with lib/pq, applies pool limits and the statement timeout,
// and pings the server.
func Open(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	dsn, err := withStatementTimeout(cfg.URL, cfg.StatementTimeout.Milliseconds())
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// ApplySchema runs the embedded DDL. Statements are idempotent.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func withStatementTimeout(rawURL string, millis int64) (string, error) {
	if millis <= 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	q := u.Query()
	if q.Get("options") == "" {
		q.Set("options", "-c statement_timeout="+strconv.FormatInt(millis, 10))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique-constraint failure,
// optionally limited to the named constraint or index.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether err is a failed reference to a
// missing parent row.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
