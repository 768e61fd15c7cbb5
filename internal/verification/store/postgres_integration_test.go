//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bankeu/internal/verification/models"
	"bankeu/internal/verification/store"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
	"bankeu/pkg/testutil/containers"
)

type PostgresVerificationSuite struct {
	suite.Suite
	pg       *containers.PostgresContainer
	store    *store.PostgresStore
	proposal domain.ProposalID
	now      time.Time
}

func TestPostgresVerificationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresVerificationSuite))
}

func (s *PostgresVerificationSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.pg.DB)
	s.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresVerificationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateTables(ctx, containers.AllTables()...))
	s.Require().NoError(s.pg.SeedVillage(ctx, 2, 7, 3))
	s.Require().NoError(s.pg.DB.QueryRowContext(ctx, `
		INSERT INTO proposals (village_id, activity_id, amount, description, created_by, created_at, updated_at)
		VALUES (7, 3, 1000, '', 1, now(), now()) RETURNING id`).Scan(&s.proposal))
}

func (s *PostgresVerificationSuite) entry(role models.Role, proposal domain.ProposalID) *models.RosterEntry {
	return &models.RosterEntry{DistrictID: 2, Role: role, Name: "Agus", Position: "Kasi PMD", Active: true,
		ProposalID: proposal, CreatedAt: s.now, UpdatedAt: s.now}
}

func (s *PostgresVerificationSuite) TestPartialUniqueIndexes() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateEntry(ctx, s.entry(models.RoleChair, 0)))
	s.ErrorIs(s.store.CreateEntry(ctx, s.entry(models.RoleChair, 0)), sentinel.ErrConflict)
	s.NoError(s.store.CreateEntry(ctx, s.entry(models.RoleChair, s.proposal)))

	s.Require().NoError(s.store.CreateEntry(ctx, s.entry(models.MemberRole(1), s.proposal)))
	s.ErrorIs(s.store.CreateEntry(ctx, s.entry(models.MemberRole(1), s.proposal)), sentinel.ErrConflict)

	s.ErrorIs(s.store.CreateEntry(ctx, s.entry(models.MemberRole(2), 9999)), sentinel.ErrNotFound)
}

func (s *PostgresVerificationSuite) TestEntryRoundTrip() {
	ctx := context.Background()
	e := s.entry(models.RoleSecretary, 0)
	e.OfficialID = "19780101 200501 1 001"
	s.Require().NoError(s.store.CreateEntry(ctx, e))

	e.SignaturePath = "signatures/agus.png"
	e.UpdatedAt = s.now.Add(time.Minute)
	s.Require().NoError(s.store.UpdateEntry(ctx, e))

	got, err := s.store.FindEntry(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("signatures/agus.png", got.SignaturePath)
	s.Equal("19780101 200501 1 001", got.OfficialID)
	s.True(got.ProposalID.IsZero())

	list, err := s.store.ListEntries(ctx, 2, true)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *PostgresVerificationSuite) TestSubmissionUpsert() {
	ctx := context.Background()
	e := s.entry(models.RoleChair, 0)
	s.Require().NoError(s.store.CreateEntry(ctx, e))

	yes, no := true, false
	sub := &models.Submission{ProposalID: s.proposal, RosterEntryID: e.ID, Recommendation: models.RecommendationRevise,
		Remarks: map[string]string{"q4": "harga semen terlalu tinggi"}, SubmittedAt: s.now}
	sub.Items[3] = &no
	s.Require().NoError(s.store.UpsertSubmission(ctx, sub))

	sub.Items[3] = &yes
	sub.Recommendation = models.RecommendationFeasible
	s.Require().NoError(s.store.UpsertSubmission(ctx, sub))

	subs, err := s.store.ListSubmissions(ctx, s.proposal)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.True(*subs[0].Items[3])
	s.Nil(subs[0].Items[0])
	s.Equal("harga semen terlalu tinggi", subs[0].Remarks["q4"])
	s.Equal(models.RecommendationFeasible, subs[0].Recommendation)
}
