// Package store persists verification rosters and questionnaire
// submissions.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bankeu/internal/platform/postgres"
	"bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
)

// PostgresStore persists roster entries and submissions.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectEntry = `
	SELECT id, district_id, role, name, position, COALESCE(official_id, ''), COALESCE(signature_path, ''),
	       active, COALESCE(proposal_id, 0), created_at, updated_at
	FROM verifier_roster
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.RosterEntry, error) {
	var (
		e    models.RosterEntry
		role string
	)
	if err := row.Scan(&e.ID, &e.DistrictID, &role, &e.Name, &e.Position, &e.OfficialID, &e.SignaturePath,
		&e.Active, &e.ProposalID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Role = models.Role(role)
	return &e, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullProposal(id domain.ProposalID) any {
	if id.IsZero() {
		return nil
	}
	return int64(id)
}

// rosterWriteError maps constraint failures onto sentinels.
func rosterWriteError(err error, op string) error {
	switch {
	case postgres.IsUniqueViolation(err, "verifier_roster_unscoped_leader_uq"),
		postgres.IsUniqueViolation(err, "verifier_roster_scoped_slot_uq"):
		return fmt.Errorf("%s: slot already taken: %w", op, sentinel.ErrConflict)
	case postgres.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: district or proposal: %w", op, sentinel.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *PostgresStore) CreateEntry(ctx context.Context, e *models.RosterEntry) error {
	err := txcontext.Use(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO verifier_roster
			(district_id, role, name, position, official_id, signature_path, active, proposal_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`, int64(e.DistrictID), string(e.Role), e.Name, e.Position, nullString(e.OfficialID), nullString(e.SignaturePath),
		e.Active, nullProposal(e.ProposalID), e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return rosterWriteError(err, "insert roster entry")
	}
	return nil
}

func (s *PostgresStore) UpdateEntry(ctx context.Context, e *models.RosterEntry) error {
	res, err := txcontext.Use(ctx, s.db).ExecContext(ctx, `
		UPDATE verifier_roster SET
			role = $3, name = $4, position = $5, official_id = $6, signature_path = $7,
			active = $8, proposal_id = $9, updated_at = $10
		WHERE id = $1 AND district_id = $2
	`, int64(e.ID), int64(e.DistrictID), string(e.Role), e.Name, e.Position, nullString(e.OfficialID),
		nullString(e.SignaturePath), e.Active, nullProposal(e.ProposalID), e.UpdatedAt)
	if err != nil {
		return rosterWriteError(err, "update roster entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update roster entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("roster entry %s: %w", e.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) FindEntry(ctx context.Context, id domain.RosterEntryID) (*models.RosterEntry, error) {
	e, err := scanEntry(txcontext.Use(ctx, s.db).QueryRowContext(ctx, selectEntry+` WHERE id = $1`, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("roster entry %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find roster entry: %w", err)
	}
	return e, nil
}

// ListEntries returns a district's roster. With activeOnly it returns the
// candidate set for models.ResolveRoster.
func (s *PostgresStore) ListEntries(ctx context.Context, district domain.DistrictID, activeOnly bool) ([]*models.RosterEntry, error) {
	query := selectEntry + ` WHERE district_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, query+` ORDER BY id`, int64(district))
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	defer rows.Close()

	var out []*models.RosterEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertSubmission writes the submission for (proposal, entry), replacing
// any earlier one.
func (s *PostgresStore) UpsertSubmission(ctx context.Context, sub *models.Submission) error {
	remarks, err := json.Marshal(orEmpty(sub.Remarks))
	if err != nil {
		return fmt.Errorf("encode remarks: %w", err)
	}
	args := []any{int64(sub.ProposalID), int64(sub.RosterEntryID)}
	for _, v := range sub.Items {
		args = append(args, v)
	}
	args = append(args, remarks, string(sub.Recommendation), sub.SubmittedAt)

	err = txcontext.Use(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO questionnaire_submissions (
			proposal_id, roster_entry_id,
			q1, q2, q3, q4, q5, q6, q7, q8, q9, q10, q11, q12, q13,
			remarks, recommendation, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT ON CONSTRAINT questionnaire_one_per_member DO UPDATE SET
			q1 = EXCLUDED.q1, q2 = EXCLUDED.q2, q3 = EXCLUDED.q3, q4 = EXCLUDED.q4, q5 = EXCLUDED.q5,
			q6 = EXCLUDED.q6, q7 = EXCLUDED.q7, q8 = EXCLUDED.q8, q9 = EXCLUDED.q9, q10 = EXCLUDED.q10,
			q11 = EXCLUDED.q11, q12 = EXCLUDED.q12, q13 = EXCLUDED.q13,
			remarks = EXCLUDED.remarks,
			recommendation = EXCLUDED.recommendation,
			submitted_at = EXCLUDED.submitted_at
		RETURNING id
	`, args...).Scan(&sub.ID)
	if postgres.IsForeignKeyViolation(err) {
		return fmt.Errorf("proposal or roster entry: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("upsert questionnaire: %w", err)
	}
	return nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func (s *PostgresStore) ListSubmissions(ctx context.Context, proposal domain.ProposalID) ([]*models.Submission, error) {
	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, `
		SELECT id, proposal_id, roster_entry_id,
		       q1, q2, q3, q4, q5, q6, q7, q8, q9, q10, q11, q12, q13,
		       remarks, recommendation, submitted_at
		FROM questionnaire_submissions
		WHERE proposal_id = $1
		ORDER BY roster_entry_id
	`, int64(proposal))
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		var (
			sub     models.Submission
			items   [models.ChecklistSize]sql.NullBool
			remarks []byte
			rec     string
		)
		dest := []any{&sub.ID, &sub.ProposalID, &sub.RosterEntryID}
		for i := range items {
			dest = append(dest, &items[i])
		}
		dest = append(dest, &remarks, &rec, &sub.SubmittedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan questionnaire: %w", err)
		}
		for i, v := range items {
			if v.Valid {
				b := v.Bool
				sub.Items[i] = &b
			}
		}
		if err := json.Unmarshal(remarks, &sub.Remarks); err != nil {
			return nil, fmt.Errorf("decode remarks: %w", err)
		}
		sub.Recommendation = models.Recommendation(rec)
		out = append(out, &sub)
	}
	return out, rows.Err()
}
