package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "certificate_history_code_uq"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "certificate_history_code_uq"))
	assert.False(t, IsUniqueViolation(err, "certificate_history_version_uq"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain"), ""))
}

func TestWithStatementTimeout(t *testing.T) {
	dsn, err := withStatementTimeout("postgres://u:p@localhost:5432/db?sslmode=disable", 5000)
	require.NoError(t, err)
	assert.True(t, strings.Contains(dsn, "statement_timeout%3D5000"), dsn)

	unchanged, err := withStatementTimeout("postgres://localhost/db", 0)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/db", unchanged)
}

func TestSchemaCarriesConstraints(t *testing.T) {
	ddl := Schema()
	for _, name := range []string{
		"certificate_history_code_uq",
		"certificate_history_version_uq",
		"certificate_history_latest_uq",
		"verifier_roster_unscoped_leader_uq",
		"questionnaire_one_per_member",
		"dpmd_requires_kecamatan_approval",
	} {
		assert.Contains(t, ddl, name)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("wrap: %w", &pq.Error{Code: "23503"})))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
}
