//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"bankeu/internal/platform/postgres"
)

// PostgresContainer wraps a testcontainers Postgres instance with the
// workflow schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bankeu"),
		tcpostgres.WithUsername("bankeu"),
		tcpostgres.WithPassword("bankeu"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	db.SetMaxOpenConns(20)

	if err := postgres.ApplySchema(ctx, db); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables empties the named tables and resets their sequences.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	return err
}

// Exec runs a statement outside any store, for fixtures.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// AllTables lists every workflow table in truncation order.
func AllTables() []string {
	return []string{
		"outbox",
		"certificate_history",
		"questionnaire_submissions",
		"verifier_roster",
		"proposal_decisions",
		"cover_letters",
		"proposals",
		"villages",
		"activities",
		"districts",
	}
}

// SeedVillage inserts a district, a village in it, and an activity with the
// given ids. Existing rows are left untouched.
func (p *PostgresContainer) SeedVillage(ctx context.Context, district, village, activity int64) error {
	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO districts (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, []any{district, fmt.Sprintf("Kecamatan %d", district)}},
		{`INSERT INTO villages (id, district_id, name) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, []any{village, district, fmt.Sprintf("Desa %d", village)}},
		{`INSERT INTO activities (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, []any{activity, fmt.Sprintf("Kegiatan %d", activity)}},
	}
	for _, st := range stmts {
		if _, err := p.DB.ExecContext(ctx, st.query, st.args...); err != nil {
			return fmt.Errorf("seed reference data: %w", err)
		}
	}
	return nil
}
