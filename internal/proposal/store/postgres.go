package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"bankeu/internal/platform/postgres"
	"bankeu/internal/proposal/models"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
)

// PostgresStore persists proposals. Every state change is a conditioned
// UPDATE that matches the expected prior state.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectProposal = `
	SELECT p.id, p.village_id, v.district_id, p.activity_id, p.amount, p.description,
	       p.created_by, p.created_at, p.updated_at,
	       COALESCE(p.dinas_decision, ''), p.dinas_reviewer_id, p.dinas_reviewed_at, p.dinas_notes,
	       p.submitted_to_kecamatan, p.submitted_to_kecamatan_at,
	       COALESCE(p.kecamatan_decision, ''), p.kecamatan_reviewer_id, p.kecamatan_reviewed_at, p.kecamatan_notes,
	       p.submitted_to_dpmd, p.submitted_to_dpmd_at,
	       COALESCE(p.dpmd_decision, ''), p.dpmd_reviewer_id, p.dpmd_reviewed_at, p.dpmd_notes,
	       COALESCE(p.certificate_path, ''), COALESCE(p.certificate_code, ''), p.certificate_issued_at
	FROM proposals p
	JOIN villages v ON v.id = p.village_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*models.Proposal, error) {
	var (
		p                                     models.Proposal
		dinas, kecamatan, dpmd                string
		dinasBy, kecamatanBy, dpmdBy          sql.NullInt64
		dinasAt, kecamatanAt, dpmdAt          sql.NullTime
		submittedKecamatanAt, submittedDPMDAt sql.NullTime
		certificateAt                         sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.VillageID, &p.DistrictID, &p.ActivityID, &p.Amount, &p.Description,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		&dinas, &dinasBy, &dinasAt, &p.DinasReview.Notes,
		&p.SubmittedToKecamatan, &submittedKecamatanAt,
		&kecamatan, &kecamatanBy, &kecamatanAt, &p.KecamatanReview.Notes,
		&p.SubmittedToDPMD, &submittedDPMDAt,
		&dpmd, &dpmdBy, &dpmdAt, &p.DPMDReview.Notes,
		&p.Certificate.Path, &p.Certificate.Code, &certificateAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Dinas, err = models.ParseDinasDecision(dinas); err != nil {
		return nil, err
	}
	if p.Kecamatan, err = models.ParseKecamatanDecision(kecamatan); err != nil {
		return nil, err
	}
	if p.DPMD, err = models.ParseDPMDDecision(dpmd); err != nil {
		return nil, err
	}
	p.DinasReview.ReviewerID = domain.UserID(dinasBy.Int64)
	p.DinasReview.ReviewedAt = timePtr(dinasAt)
	p.KecamatanReview.ReviewerID = domain.UserID(kecamatanBy.Int64)
	p.KecamatanReview.ReviewedAt = timePtr(kecamatanAt)
	p.DPMDReview.ReviewerID = domain.UserID(dpmdBy.Int64)
	p.DPMDReview.ReviewedAt = timePtr(dpmdAt)
	p.SubmittedToKecamatanAt = timePtr(submittedKecamatanAt)
	p.SubmittedToDPMDAt = timePtr(submittedDPMDAt)
	p.Certificate.IssuedAt = timePtr(certificateAt)
	return &p, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableUser(id domain.UserID) any {
	if id == 0 {
		return nil
	}
	return int64(id)
}

func (s *PostgresStore) VillageDistrict(ctx context.Context, village domain.VillageID) (domain.DistrictID, error) {
	var district domain.DistrictID
	err := txcontext.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT district_id FROM villages WHERE id = $1`, int64(village)).Scan(&district)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("village %s: %w", village, sentinel.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("find village district: %w", err)
	}
	return district, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Proposal) error {
	query := `
		INSERT INTO proposals (village_id, activity_id, amount, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`
	err := txcontext.Use(ctx, s.db).QueryRowContext(ctx, query,
		int64(p.VillageID), int64(p.ActivityID), p.Amount, p.Description, int64(p.CreatedBy), p.CreatedAt,
	).Scan(&p.ID)
	if postgres.IsForeignKeyViolation(err) {
		return fmt.Errorf("village or activity: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ProposalID) (*models.Proposal, error) {
	row := txcontext.Use(ctx, s.db).QueryRowContext(ctx, selectProposal+` WHERE p.id = $1`, int64(id))
	p, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("proposal %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find proposal: %w", err)
	}
	return p, nil
}

// CompareAndSwap writes next's workflow fields only if the stored row still
// matches expected. A miss is ErrStateChanged, or ErrNotFound when the row
// does not exist.
func (s *PostgresStore) CompareAndSwap(ctx context.Context, expected models.State, next *models.Proposal) error {
	query := `
		UPDATE proposals SET
			dinas_decision = $2, dinas_reviewer_id = $3, dinas_reviewed_at = $4, dinas_notes = $5,
			submitted_to_kecamatan = $6, submitted_to_kecamatan_at = $7,
			kecamatan_decision = $8, kecamatan_reviewer_id = $9, kecamatan_reviewed_at = $10, kecamatan_notes = $11,
			submitted_to_dpmd = $12, submitted_to_dpmd_at = $13,
			dpmd_decision = $14, dpmd_reviewer_id = $15, dpmd_reviewed_at = $16, dpmd_notes = $17,
			updated_at = $18
		WHERE id = $1
		  AND dinas_decision IS NOT DISTINCT FROM $19
		  AND kecamatan_decision IS NOT DISTINCT FROM $20
		  AND dpmd_decision IS NOT DISTINCT FROM $21
		  AND submitted_to_kecamatan = $22
		  AND submitted_to_dpmd = $23
	`
	q := txcontext.Use(ctx, s.db)
	res, err := q.ExecContext(ctx, query,
		int64(next.ID),
		nullable(string(next.Dinas)), nullableUser(next.DinasReview.ReviewerID), next.DinasReview.ReviewedAt, next.DinasReview.Notes,
		next.SubmittedToKecamatan, next.SubmittedToKecamatanAt,
		nullable(string(next.Kecamatan)), nullableUser(next.KecamatanReview.ReviewerID), next.KecamatanReview.ReviewedAt, next.KecamatanReview.Notes,
		next.SubmittedToDPMD, next.SubmittedToDPMDAt,
		nullable(string(next.DPMD)), nullableUser(next.DPMDReview.ReviewerID), next.DPMDReview.ReviewedAt, next.DPMDReview.Notes,
		next.UpdatedAt,
		nullable(string(expected.Dinas)), nullable(string(expected.Kecamatan)), nullable(string(expected.DPMD)),
		expected.SubmittedToKecamatan, expected.SubmittedToDPMD,
	)
	if err != nil {
		return fmt.Errorf("update proposal state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update proposal state: %w", err)
	}
	if affected == 1 {
		return nil
	}
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM proposals WHERE id = $1)`, int64(next.ID)).Scan(&exists); err != nil {
		return fmt.Errorf("check proposal existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("proposal %s: %w", next.ID, sentinel.ErrNotFound)
	}
	return fmt.Errorf("proposal %s: %w", next.ID, sentinel.ErrStateChanged)
}

func (s *PostgresStore) ListAwaitingReview(ctx context.Context, village domain.VillageID) ([]*models.Proposal, error) {
	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx,
		selectProposal+` WHERE p.village_id = $1 AND p.submitted_to_kecamatan AND NOT p.submitted_to_dpmd ORDER BY p.id`,
		int64(village))
	if err != nil {
		return nil, fmt.Errorf("list proposals awaiting review: %w", err)
	}
	defer rows.Close()

	var out []*models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ForwardToDPMD forwards every proposal of the village awaiting kecamatan
// review in one conditioned statement. The statement matches nothing if any
// of them lacks approval or a certificate. If the forwarded set differs from
// expected the transaction is rolled back with ErrStateChanged.
func (s *PostgresStore) ForwardToDPMD(ctx context.Context, village domain.VillageID, expected []domain.ProposalID, now time.Time) ([]domain.ProposalID, error) {
	query := `
		UPDATE proposals SET
			submitted_to_dpmd = TRUE,
			submitted_to_dpmd_at = $2,
			dpmd_decision = 'pending',
			updated_at = $2
		WHERE village_id = $1
		  AND submitted_to_kecamatan
		  AND NOT submitted_to_dpmd
		  AND NOT EXISTS (
			SELECT 1 FROM proposals b
			WHERE b.village_id = $1
			  AND b.submitted_to_kecamatan
			  AND NOT b.submitted_to_dpmd
			  AND (b.kecamatan_decision IS DISTINCT FROM 'approved' OR b.certificate_code IS NULL)
		  )
		RETURNING id
	`
	return s.bulkUpdate(ctx, village, expected, query, int64(village), now)
}

// ReturnToVillage clears the kecamatan gate on every proposal of the
// village awaiting review, with the same all-or-nothing contract as
// ForwardToDPMD.
func (s *PostgresStore) ReturnToVillage(ctx context.Context, village domain.VillageID, expected []domain.ProposalID, now time.Time) ([]domain.ProposalID, error) {
	query := `
		UPDATE proposals SET
			submitted_to_kecamatan = FALSE,
			updated_at = $2
		WHERE village_id = $1
		  AND submitted_to_kecamatan
		  AND NOT submitted_to_dpmd
		RETURNING id
	`
	return s.bulkUpdate(ctx, village, expected, query, int64(village), now)
}

func (s *PostgresStore) bulkUpdate(ctx context.Context, village domain.VillageID, expected []domain.ProposalID, query string, args ...any) ([]domain.ProposalID, error) {
	var updated []domain.ProposalID
	err := txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		q := txcontext.Use(ctx, s.db)
		// Lock every row of the village so a concurrent per-proposal
		// transition cannot interleave with the bulk statement.
		if _, err := q.ExecContext(ctx, `SELECT id FROM proposals WHERE village_id = $1 FOR UPDATE`, int64(village)); err != nil {
			return fmt.Errorf("lock village proposals: %w", err)
		}
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("bulk update proposals: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id domain.ProposalID
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("scan updated id: %w", err)
			}
			updated = append(updated, id)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("bulk update proposals: %w", err)
		}
		if !sameIDs(updated, expected) {
			return fmt.Errorf("village %s: updated %d of %d proposals: %w", village, len(updated), len(expected), sentinel.ErrStateChanged)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func sameIDs(a, b []domain.ProposalID) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func (s *PostgresStore) LinkCertificate(ctx context.Context, id domain.ProposalID, link models.CertificateLink) error {
	res, err := txcontext.Use(ctx, s.db).ExecContext(ctx, `
		UPDATE proposals
		SET certificate_path = $2, certificate_code = $3, certificate_issued_at = $4, updated_at = $4
		WHERE id = $1
	`, int64(id), link.Path, link.Code, link.IssuedAt)
	if err != nil {
		return fmt.Errorf("link certificate: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("link certificate: %w", err)
	} else if n == 0 {
		return fmt.Errorf("proposal %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) AppendDecision(ctx context.Context, d *models.Decision) error {
	err := txcontext.Use(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO proposal_decisions (proposal_id, stage, action, from_state, to_state, actor_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, int64(d.ProposalID), string(d.Stage), d.Action, d.From, d.To, int64(d.ActorID), d.Notes, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDecisions(ctx context.Context, id domain.ProposalID) ([]*models.Decision, error) {
	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, `
		SELECT id, proposal_id, stage, action, from_state, to_state, actor_id, notes, created_at
		FROM proposal_decisions
		WHERE proposal_id = $1
		ORDER BY id
	`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []*models.Decision
	for rows.Next() {
		var d models.Decision
		if err := rows.Scan(&d.ID, &d.ProposalID, &d.Stage, &d.Action, &d.From, &d.To, &d.ActorID, &d.Notes, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
