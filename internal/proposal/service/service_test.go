package service

//go:generate mockgen -source=collaborators.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bankeu/internal/platform/metrics"
	"bankeu/internal/proposal/gate"
	"bankeu/internal/proposal/models"
	"bankeu/internal/proposal/service/mocks"
	"bankeu/internal/proposal/store"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/audit"
	"bankeu/pkg/platform/audit/publishers/compliance"
	auditmemory "bankeu/pkg/platform/audit/store/memory"
	txcontext "bankeu/pkg/platform/tx"
	"bankeu/pkg/requestcontext"
)

const (
	village  domain.VillageID  = 7
	district domain.DistrictID = 2
)

var (
	villageOp   = domain.Actor{UserID: 1, Role: domain.RoleVillage, VillageID: village}
	dinasOp     = domain.Actor{UserID: 2, Role: domain.RoleDinas}
	kecamatanOp = domain.Actor{UserID: 3, Role: domain.RoleKecamatan, DistrictID: district}
	dpmdOp      = domain.Actor{UserID: 4, Role: domain.RoleDPMD, DistrictID: district}
	otherKecOp  = domain.Actor{UserID: 5, Role: domain.RoleKecamatan, DistrictID: 99}
)

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	channel *gate.MemoryChannel
	covers  *gate.MemoryCoverLetters
	events  *auditmemory.InMemoryStore
	metrics *metrics.Metrics
	service *Service
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.store.AddVillage(village, district)
	s.channel = gate.NewMemoryChannel()
	s.covers = gate.NewMemoryCoverLetters()
	s.events = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s.service = New(s.store, txcontext.NewLockRunner(), s.channel, s.covers,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithEventPublisher(compliance.New(s.events)),
	)
}

func (s *ServiceSuite) as(actor domain.Actor) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *ServiceSuite) created() *models.Proposal {
	p, err := s.service.Create(s.as(villageOp), CreateRequest{VillageID: village, ActivityID: 3, Amount: 250_000_000, Description: "Jalan usaha tani"})
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) atKecamatan() *models.Proposal {
	p := s.created()
	_, err := s.service.DinasDecide(s.as(dinasOp), p.ID, models.DinasApprove, "")
	s.Require().NoError(err)
	p, err = s.service.SubmitToKecamatan(s.as(villageOp), p.ID)
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) approvedAndCertified() *models.Proposal {
	p := s.atKecamatan()
	p, err := s.service.KecamatanDecide(s.as(kecamatanOp), p.ID, models.KecamatanApprove, "")
	s.Require().NoError(err)
	issued := s.now
	s.Require().NoError(s.store.LinkCertificate(context.Background(), p.ID, models.CertificateLink{Path: "ba.pdf", Code: "BA-2-1-1-AAAA0000", IssuedAt: &issued}))
	return p
}

func (s *ServiceSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func (s *ServiceSuite) TestHappyPath() {
	p := s.approvedAndCertified()
	s.True(p.SubmittedToKecamatan)
	s.Equal(models.KecamatanApproved, p.Kecamatan)
	s.False(p.SubmittedToDPMD)

	s.Require().NoError(s.channel.SetOpen(context.Background(), district, true))
	s.covers.Set(village, true)

	res, err := s.service.SubmitReview(s.as(kecamatanOp), village, models.ReviewSubmit)
	s.Require().NoError(err)
	s.Equal(1, res.Affected)
	s.Equal([]domain.ProposalID{p.ID}, res.ProposalIDs)

	got, err := s.service.Get(s.as(dpmdOp), p.ID)
	s.Require().NoError(err)
	s.True(got.SubmittedToDPMD)
	s.Equal(models.DPMDPending, got.DPMD)

	got, err = s.service.DPMDDecide(s.as(dpmdOp), p.ID, models.DPMDApprove, "")
	s.Require().NoError(err)
	s.Equal(models.DPMDApproved, got.DPMD)

	history, err := s.service.History(s.as(villageOp), p.ID)
	s.Require().NoError(err)
	stages := make([]models.Stage, 0, len(history))
	for _, d := range history {
		stages = append(stages, d.Stage)
	}
	s.Equal([]models.Stage{
		models.StageVillage, models.StageDinas, models.StageVillage,
		models.StageKecamatan, models.StageKecamatanReview, models.StageDPMD,
	}, stages)

	events, _ := s.events.ListAll(context.Background())
	types := make([]audit.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	s.Equal([]audit.EventType{
		audit.EventProposalCreated, audit.EventDinasApproved, audit.EventProposalSubmitted,
		audit.EventKecamatanApproved, audit.EventReviewSubmitted, audit.EventDPMDApproved,
	}, types)
	s.Equal(1, events[4].Affected)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Transitions.WithLabelValues("dpmd", "approve")))
}

func (s *ServiceSuite) TestRollbackToVillage() {
	p := s.atKecamatan()

	got, err := s.service.KecamatanDecide(s.as(kecamatanOp), p.ID, models.KecamatanRevision, "perbaiki RAB")
	s.Require().NoError(err)
	s.Equal(models.KecamatanRevisionRequested, got.Kecamatan)
	s.False(got.SubmittedToKecamatan)
	s.Equal("perbaiki RAB", got.KecamatanReview.Notes)

	s.Run("deciding again before resubmission is an invalid transition", func() {
		_, err := s.service.KecamatanDecide(s.as(kecamatanOp), p.ID, models.KecamatanRevision, "perbaiki RAB")
		s.requireCode(err, dErrors.CodeInvalidTransition)
		s.Contains(err.Error(), "kecamatan=revision-requested")
		s.Contains(err.Error(), "kecamatan revision")
	})

	s.Run("resubmission re-enters review", func() {
		again, err := s.service.SubmitToKecamatan(s.as(villageOp), p.ID)
		s.Require().NoError(err)
		s.True(again.SubmittedToKecamatan)
		s.Equal(models.KecamatanUnset, again.Kecamatan)

		_, err = s.service.KecamatanDecide(s.as(kecamatanOp), p.ID, models.KecamatanApprove, "")
		s.Require().NoError(err)
	})
}

func (s *ServiceSuite) TestAffiliation() {
	p := s.atKecamatan()

	s.Run("kecamatan of another district is forbidden", func() {
		_, err := s.service.KecamatanDecide(s.as(otherKecOp), p.ID, models.KecamatanApprove, "")
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("wrong role is forbidden", func() {
		_, err := s.service.DPMDDecide(s.as(kecamatanOp), p.ID, models.DPMDApprove, "")
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("another village cannot submit", func() {
		other := domain.Actor{UserID: 9, Role: domain.RoleVillage, VillageID: 8}
		_, err := s.service.SubmitToKecamatan(s.as(other), p.ID)
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("anonymous caller", func() {
		_, err := s.service.Get(context.Background(), p.ID)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("missing proposal", func() {
		_, err := s.service.Get(s.as(kecamatanOp), 404)
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestDinasGuards() {
	p := s.created()

	_, err := s.service.DinasDecide(s.as(dinasOp), p.ID, models.DinasReject, "  ")
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.service.KecamatanDecide(s.as(kecamatanOp), p.ID, models.KecamatanApprove, "")
	s.requireCode(err, dErrors.CodeInvalidTransition)

	_, err = s.service.SubmitToKecamatan(s.as(villageOp), p.ID)
	s.requireCode(err, dErrors.CodeInvalidTransition)
	s.Contains(err.Error(), "dinas has not approved")
}

func (s *ServiceSuite) TestSubmitReviewReportsEveryUnmetPrecondition() {
	a := s.approvedAndCertified()
	b := s.atKecamatan()

	_, err := s.service.SubmitReview(s.as(kecamatanOp), village, models.ReviewSubmit)
	s.requireCode(err, dErrors.CodeInvalidTransition)
	s.ElementsMatch([]string{
		"submission channel for district 2 is closed",
		"village 7 has no cover letter",
		"proposal " + b.ID.String() + ": kecamatan decision is unset",
		"proposal " + b.ID.String() + ": certificate not issued",
	}, dErrors.DetailsOf(err))

	got, _ := s.store.FindByID(context.Background(), a.ID)
	s.False(got.SubmittedToDPMD, "no proposal is forwarded when any precondition fails")
}

func (s *ServiceSuite) TestSubmitReviewReturn() {
	a := s.approvedAndCertified()
	b := s.atKecamatan()

	res, err := s.service.SubmitReview(s.as(kecamatanOp), village, models.ReviewReturn)
	s.Require().NoError(err)
	s.Equal(2, res.Affected)

	for _, id := range []domain.ProposalID{a.ID, b.ID} {
		got, _ := s.store.FindByID(context.Background(), id)
		s.False(got.SubmittedToKecamatan)
		s.NoError(got.State.Validate())
	}

	_, err = s.service.SubmitReview(s.as(kecamatanOp), village, models.ReviewReturn)
	s.requireCode(err, dErrors.CodeInvalidTransition)
}

func (s *ServiceSuite) TestStaleStateIsConcurrencyConflict() {
	p := s.atKecamatan()

	// A competing approval lands between this caller's read and write.
	stale, err := s.store.FindByID(context.Background(), p.ID)
	s.Require().NoError(err)
	_, err = s.service.KecamatanDecide(s.as(kecamatanOp), p.ID, models.KecamatanApprove, "")
	s.Require().NoError(err)

	_, err = s.service.commit(s.as(kecamatanOp), stale, kecamatanOp, transition{
		stage:  models.StageKecamatan,
		action: string(models.KecamatanApprove),
		event:  audit.EventKecamatanApproved,
		apply: func(next *models.Proposal, by domain.UserID, now time.Time) {
			next.ApplyKecamatanDecision(models.KecamatanApprove, by, "", now)
		},
	})
	s.requireCode(err, dErrors.CodeConcurrencyConflict)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.TransitionConflicts.WithLabelValues("kecamatan")))

	history, _ := s.store.ListDecisions(context.Background(), p.ID)
	s.Len(history, 4, "the losing write leaves no history row")
}

func (s *ServiceSuite) TestSetChannelOpen() {
	s.Require().NoError(s.service.SetChannelOpen(s.as(dpmdOp), district, true))
	open, _ := s.channel.IsOpen(context.Background(), district)
	s.True(open)

	err := s.service.SetChannelOpen(s.as(kecamatanOp), district, false)
	s.requireCode(err, dErrors.CodeForbidden)
}

func TestEventPersistenceFailureFailsTransition(t *testing.T) {
	ctrl := gomock.NewController(t)

	st := store.NewInMemory()
	st.AddVillage(village, district)
	publisher := mocks.NewMockEventPublisher(ctrl)
	svc := New(st, txcontext.NewLockRunner(), gate.NewMemoryChannel(), gate.NewMemoryCoverLetters(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithEventPublisher(publisher),
	)

	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

	ctx := requestcontext.WithActor(context.Background(), villageOp)
	_, err := svc.Create(ctx, CreateRequest{VillageID: village, ActivityID: 1, Amount: 10})
	if !dErrors.HasCode(err, dErrors.CodeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestSubmitReviewGateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	st := store.NewInMemory()
	st.AddVillage(village, district)
	st.Put(&models.Proposal{
		ID: 1, VillageID: village, DistrictID: district,
		State: models.State{Dinas: models.DinasApproved, Kecamatan: models.KecamatanApproved, SubmittedToKecamatan: true},
	})
	channel := mocks.NewMockChannelGate(ctrl)
	covers := mocks.NewMockCoverLetters(ctrl)
	svc := New(st, txcontext.NewLockRunner(), channel, covers,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	channel.EXPECT().IsOpen(gomock.Any(), district).Return(false, errors.New("redis: connection refused"))

	ctx := requestcontext.WithActor(context.Background(), kecamatanOp)
	_, err := svc.SubmitReview(ctx, village, models.ReviewSubmit)
	if !dErrors.HasCode(err, dErrors.CodeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
