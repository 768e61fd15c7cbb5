package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"bankeu/internal/certificate/models"
	"bankeu/internal/platform/postgres"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
)

// PostgresStore is the certificate history ledger. Issuance for one
// (village, activity) subject is serialized by a transaction-scoped
// advisory lock.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Issue supersedes the subject's latest entry and inserts e as the next
// version. It returns the codes it superseded. Called outside a
// transaction it opens its own.
func (s *PostgresStore) Issue(ctx context.Context, e *models.Entry) ([]string, error) {
	checklist, err := json.Marshal(e.Checklist)
	if err != nil {
		return nil, fmt.Errorf("encode checklist snapshot: %w", err)
	}
	roster, err := json.Marshal(e.Roster)
	if err != nil {
		return nil, fmt.Errorf("encode roster snapshot: %w", err)
	}

	var superseded []string
	err = txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		q := txcontext.Use(ctx, s.db)
		village, activity := int64(e.VillageID), e.Activity.Key()

		if _, err := q.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1::bigint)`, SubjectLockKey(village, activity)); err != nil {
			return fmt.Errorf("lock certificate subject: %w", err)
		}

		if superseded, err = supersede(ctx, q, village, activity); err != nil {
			return err
		}

		if err := q.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(version), 0) + 1 FROM certificate_history
			WHERE village_id = $1 AND COALESCE(activity_id, 0) = $2
		`, village, activity).Scan(&e.Version); err != nil {
			return fmt.Errorf("next certificate version: %w", err)
		}

		e.IsLatest = true
		err = q.QueryRowContext(ctx, `
			INSERT INTO certificate_history
				(proposal_id, village_id, district_id, activity_id, file_path, file_name, file_size,
				 code, version, is_latest, issued_by, issued_at, checklist_snapshot, roster_snapshot)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, $11, $12, $13)
			RETURNING id
		`, int64(e.ProposalID), village, int64(e.DistrictID), e.Activity.Ptr(), e.File.Path, e.File.Name, e.File.Size,
			e.Code, e.Version, int64(e.IssuedBy), e.IssuedAt, checklist, roster).Scan(&e.ID)
		switch {
		case postgres.IsUniqueViolation(err, ""):
			return fmt.Errorf("insert certificate %s: %w", e.Code, sentinel.ErrConflict)
		case postgres.IsForeignKeyViolation(err):
			return fmt.Errorf("insert certificate: proposal or village: %w", sentinel.ErrNotFound)
		case err != nil:
			return fmt.Errorf("insert certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		e.IsLatest = false
		return nil, err
	}
	return superseded, nil
}

// SubjectLockKey derives the advisory lock key for a village and activity.
// Ids span the full bigint range, so the pair is hashed rather than split
// into two int4 keys. A collision only serializes two unrelated subjects.
func SubjectLockKey(village, activity int64) int64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(village))
	binary.BigEndian.PutUint64(buf[8:], uint64(activity))
	return int64(xxhash.Sum64(buf[:]))
}

func supersede(ctx context.Context, q txcontext.Querier, village, activity int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		UPDATE certificate_history SET is_latest = FALSE
		WHERE village_id = $1 AND COALESCE(activity_id, 0) = $2 AND is_latest
		RETURNING code
	`, village, activity)
	if err != nil {
		return nil, fmt.Errorf("supersede certificate: %w", err)
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan superseded code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("supersede certificate: %w", err)
	}
	return codes, nil
}

const selectEntry = `
	SELECT id, proposal_id, village_id, district_id, activity_id, file_path, file_name, file_size,
	       code, version, is_latest, issued_by, issued_at, checklist_snapshot, roster_snapshot
	FROM certificate_history
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e                 models.Entry
		activity          sql.NullInt64
		checklist, roster []byte
	)
	err := row.Scan(&e.ID, &e.ProposalID, &e.VillageID, &e.DistrictID, &activity,
		&e.File.Path, &e.File.Name, &e.File.Size,
		&e.Code, &e.Version, &e.IsLatest, &e.IssuedBy, &e.IssuedAt, &checklist, &roster)
	if err != nil {
		return nil, err
	}
	if activity.Valid {
		e.Activity = domain.SomeActivity(domain.ActivityID(activity.Int64))
	}
	if err := json.Unmarshal(checklist, &e.Checklist); err != nil {
		return nil, fmt.Errorf("decode checklist snapshot: %w", err)
	}
	if err := json.Unmarshal(roster, &e.Roster); err != nil {
		return nil, fmt.Errorf("decode roster snapshot: %w", err)
	}
	return &e, nil
}

// FindByCode expects an already normalized code.
func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Verification, error) {
	var (
		v            models.Verification
		activityName sql.NullString
		description  string
		amount       int64
		issuedAt     sql.NullTime
	)
	err := txcontext.Use(ctx, s.db).QueryRowContext(ctx, `
		SELECT h.code, h.proposal_id, h.village_id, v.name, h.district_id, d.name, a.name,
		       p.description, p.amount, h.version, h.issued_at, h.issued_by, h.is_latest, h.file_path
		FROM certificate_history h
		JOIN villages v ON v.id = h.village_id
		JOIN districts d ON d.id = h.district_id
		JOIN proposals p ON p.id = h.proposal_id
		LEFT JOIN activities a ON a.id = h.activity_id
		WHERE h.code = $1
	`, code).Scan(&v.Code, &v.ProposalID, &v.VillageID, &v.VillageName, &v.DistrictID, &v.DistrictName, &activityName,
		&description, &amount, &v.Version, &issuedAt, &v.IssuedBy, &v.IsLatest, &v.FilePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("certificate %s: %w", code, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	v.Valid = true
	v.ActivityName = activityName.String
	v.Summary = models.Summary(description, amount)
	if issuedAt.Valid {
		v.IssuedAt = &issuedAt.Time
	}
	return &v, nil
}

// History lists every version of a subject, newest first.
func (s *PostgresStore) History(ctx context.Context, subject models.Subject) ([]*models.Entry, error) {
	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, selectEntry+`
		WHERE village_id = $1 AND COALESCE(activity_id, 0) = $2
		ORDER BY version DESC
	`, int64(subject.VillageID), subject.Activity.Key())
	if err != nil {
		return nil, fmt.Errorf("list certificate history: %w", err)
	}
	defer rows.Close()
	var out []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
