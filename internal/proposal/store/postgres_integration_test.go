//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bankeu/internal/proposal/models"
	"bankeu/internal/proposal/store"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
	"bankeu/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.PostgresStore
	now   time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.pg.DB)
	s.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateTables(ctx, containers.AllTables()...))
	s.Require().NoError(s.pg.SeedVillage(ctx, 2, 7, 3))
}

func (s *PostgresStoreSuite) insert(state models.State) *models.Proposal {
	p, err := models.NewProposal(7, 2, 3, 1_000_000, "Drainase", 1, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), p))
	if state != (models.State{}) {
		next := p.Clone()
		next.State = state
		s.Require().NoError(s.store.CompareAndSwap(context.Background(), models.State{}, next))
		p = next
	}
	return p
}

func approvedAtKecamatan() models.State {
	return models.State{Dinas: models.DinasApproved, Kecamatan: models.KecamatanApproved, SubmittedToKecamatan: true}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	p := s.insert(models.State{})
	s.NotZero(p.ID)

	got, err := s.store.FindByID(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Equal(domain.DistrictID(2), got.DistrictID)
	s.Equal(models.State{}, got.State)

	_, err = s.store.FindByID(context.Background(), 9999)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCreateUnknownVillage() {
	p, err := models.NewProposal(404, 2, 3, 10, "", 1, s.now)
	s.Require().NoError(err)
	s.ErrorIs(s.store.Create(context.Background(), p), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCompareAndSwapIsConditioned() {
	ctx := context.Background()
	p := s.insert(models.State{Dinas: models.DinasApproved, SubmittedToKecamatan: true})

	// Two writers read the same state; exactly one may commit.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, action := range []models.KecamatanAction{models.KecamatanApprove, models.KecamatanRevision} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next := p.Clone()
			next.ApplyKecamatanDecision(action, 3, "catatan", s.now)
			errs[i] = s.store.CompareAndSwap(ctx, p.State, next)
		}()
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, sentinel.ErrStateChanged):
			conflicts++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, ok)
	s.Equal(1, conflicts)

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.NoError(got.State.Validate())
}

func (s *PostgresStoreSuite) TestSchemaRejectsInvariantViolations() {
	p := s.insert(models.State{Dinas: models.DinasApproved, SubmittedToKecamatan: true})

	next := p.Clone()
	next.SubmittedToDPMD = true
	next.DPMD = models.DPMDPending
	err := s.store.CompareAndSwap(context.Background(), p.State, next)
	s.Error(err, "dpmd without kecamatan approval must be refused by the schema")
}

func (s *PostgresStoreSuite) TestForwardToDPMD() {
	ctx := context.Background()
	runner := txcontext.NewSQLRunner(s.pg.DB)
	a := s.insert(approvedAtKecamatan())
	b := s.insert(approvedAtKecamatan())

	s.Run("blocked while any proposal lacks a certificate", func() {
		s.Require().NoError(s.store.LinkCertificate(ctx, a.ID, models.CertificateLink{Path: "a.pdf", Code: "BA-A", IssuedAt: &s.now}))
		err := runner.RunInTx(ctx, func(ctx context.Context) error {
			_, err := s.store.ForwardToDPMD(ctx, 7, []domain.ProposalID{a.ID, b.ID}, s.now)
			return err
		})
		s.ErrorIs(err, sentinel.ErrStateChanged)

		got, _ := s.store.FindByID(ctx, a.ID)
		s.False(got.SubmittedToDPMD, "nothing is forwarded")
	})

	s.Run("forwards the whole set once every proposal is certified", func() {
		s.Require().NoError(s.store.LinkCertificate(ctx, b.ID, models.CertificateLink{Path: "b.pdf", Code: "BA-B", IssuedAt: &s.now}))
		var ids []domain.ProposalID
		err := runner.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			ids, err = s.store.ForwardToDPMD(ctx, 7, []domain.ProposalID{a.ID, b.ID}, s.now)
			return err
		})
		s.Require().NoError(err)
		s.ElementsMatch([]domain.ProposalID{a.ID, b.ID}, ids)

		for _, id := range ids {
			got, _ := s.store.FindByID(ctx, id)
			s.True(got.SubmittedToDPMD)
			s.Equal(models.DPMDPending, got.DPMD)
		}
	})
}

func (s *PostgresStoreSuite) TestReturnDetectsUnexpectedProposal() {
	ctx := context.Background()
	a := s.insert(approvedAtKecamatan())
	late := s.insert(models.State{Dinas: models.DinasApproved, SubmittedToKecamatan: true})

	_, err := s.store.ReturnToVillage(ctx, 7, []domain.ProposalID{a.ID}, s.now)
	s.ErrorIs(err, sentinel.ErrStateChanged)

	got, _ := s.store.FindByID(ctx, late.ID)
	s.True(got.SubmittedToKecamatan, "the rejected bulk statement rolls back")
}

func (s *PostgresStoreSuite) TestDecisionHistory() {
	ctx := context.Background()
	p := s.insert(models.State{})
	for _, stage := range []models.Stage{models.StageVillage, models.StageDinas} {
		s.Require().NoError(s.store.AppendDecision(ctx, &models.Decision{
			ProposalID: p.ID, Stage: stage, Action: "approve", To: "x", ActorID: 1, CreatedAt: s.now,
		}))
	}
	history, err := s.store.ListDecisions(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(models.StageVillage, history[0].Stage)
	s.NotZero(history[1].ID)
}
