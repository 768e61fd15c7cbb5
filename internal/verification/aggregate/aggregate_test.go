package aggregate

//go:generate mockgen -source=aggregate.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	proposalmodels "bankeu/internal/proposal/models"
	proposalstore "bankeu/internal/proposal/store"
	"bankeu/internal/verification/aggregate/mocks"
	"bankeu/internal/verification/models"
	"bankeu/internal/verification/roster"
	"bankeu/internal/verification/store"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	txcontext "bankeu/pkg/platform/tx"
	"bankeu/pkg/requestcontext"
)

var (
	kecamatanOp = domain.Actor{UserID: 3, Role: domain.RoleKecamatan, DistrictID: 2}
	foreignOp   = domain.Actor{UserID: 5, Role: domain.RoleKecamatan, DistrictID: 9}
	dinasOp     = domain.Actor{UserID: 2, Role: domain.RoleDinas}
)

type AggregatorSuite struct {
	suite.Suite
	store      *store.InMemory
	aggregator *Aggregator
	entries    []*models.RosterEntry
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorSuite))
}

func (s *AggregatorSuite) SetupTest() {
	s.store = store.NewInMemory()
	proposals := proposalstore.NewInMemory()
	proposals.Put(&proposalmodels.Proposal{ID: 11, VillageID: 7, DistrictID: 2,
		State: proposalmodels.State{Dinas: proposalmodels.DinasApproved, SubmittedToKecamatan: true}})

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s.entries = nil
	for _, role := range []models.Role{models.RoleChair, models.RoleSecretary, models.MemberRole(1)} {
		e := &models.RosterEntry{DistrictID: 2, Role: role, Name: string(role), Active: true, CreatedAt: now}
		s.Require().NoError(s.store.CreateEntry(context.Background(), e))
		s.entries = append(s.entries, e)
	}

	registry := roster.New(s.store, proposals, txcontext.NewLockRunner())
	s.aggregator = New(registry, s.store, proposals, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *AggregatorSuite) submit(entry *models.RosterEntry, items models.Checklist) {
	s.Require().NoError(s.store.UpsertSubmission(context.Background(), &models.Submission{
		ProposalID: 11, RosterEntryID: entry.ID, Items: items, Recommendation: models.RecommendationFeasible,
	}))
}

func (s *AggregatorSuite) TestOneTrueAnswerDecidesItem() {
	yes, no := true, false
	var first, second, third models.Checklist
	first[4], second[4] = &no, &yes
	s.submit(s.entries[0], first)
	s.submit(s.entries[1], second)
	s.submit(s.entries[2], third)

	res, err := s.aggregator.Aggregate(context.Background(), 11, 2)
	s.Require().NoError(err)
	s.True(*res.Items.Get("q5"))
	s.Equal(100, res.Completeness)
}

func (s *AggregatorSuite) TestPreviewMatchesAggregate() {
	var items models.Checklist
	yes := true
	items[0] = &yes
	s.submit(s.entries[0], items)

	ctx := requestcontext.WithActor(context.Background(), dinasOp)
	preview, err := s.aggregator.Preview(ctx, 11)
	s.Require().NoError(err)
	direct, err := s.aggregator.Aggregate(context.Background(), 11, 2)
	s.Require().NoError(err)
	s.Equal(direct, preview)
	s.Equal(33, preview.Completeness)
}

func (s *AggregatorSuite) TestPreviewAccess() {
	_, err := s.aggregator.Preview(context.Background(), 11)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = s.aggregator.Preview(requestcontext.WithActor(context.Background(), foreignOp), 11)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.aggregator.Preview(requestcontext.WithActor(context.Background(), kecamatanOp), 404)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestAggregateStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockRosterResolver(ctrl)
	subs := mocks.NewMockSubmissions(ctrl)
	proposals := mocks.NewMockProposals(ctrl)
	a := New(resolver, subs, proposals, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	resolver.EXPECT().Resolve(gomock.Any(), domain.DistrictID(2), domain.ProposalID(11)).Return(nil, nil)
	subs.EXPECT().ListSubmissions(gomock.Any(), domain.ProposalID(11)).Return(nil, errors.New("connection reset"))

	_, err := a.Aggregate(context.Background(), 11, 2)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
}
