package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bankeu/internal/proposal/handler/mocks"
	"bankeu/internal/proposal/models"
	"bankeu/internal/proposal/service"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type ProposalHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
}

func TestProposalHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProposalHandlerSuite))
}

var kecamatanOp = domain.Actor{UserID: 3, Role: domain.RoleKecamatan, DistrictID: 2}

func (s *ProposalHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func (s *ProposalHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithActor(req, kecamatanOp))
}

func proposalAt(state models.State) *models.Proposal {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return &models.Proposal{ID: 11, VillageID: 7, DistrictID: 2, ActivityID: 3, Amount: 1000, State: state, CreatedAt: now, UpdatedAt: now}
}

func (s *ProposalHandlerSuite) TestCreate() {
	s.Run("decodes and forwards the request", func() {
		s.service.EXPECT().Create(gomock.Any(), service.CreateRequest{
			VillageID: 7, ActivityID: 3, Amount: 1000, Description: "Jalan desa",
		}).Return(proposalAt(models.State{}), nil)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals", map[string]any{
			"village_id": 7, "activity_id": 3, "amount": 1000, "description": "  Jalan desa ",
		}))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		assert.Equal(s.T(), float64(11), (*body)["id"])
		assert.Equal(s.T(), "", (*body)["dinas_decision"])
	})

	s.Run("missing amount fails validation", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals", map[string]any{
			"village_id": 7, "activity_id": 3,
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *ProposalHandlerSuite) TestKecamatanDecision() {
	s.Run("revision returns the updated proposal", func() {
		s.service.EXPECT().
			KecamatanDecide(gomock.Any(), domain.ProposalID(11), models.KecamatanRevision, "perbaiki RAB").
			Return(proposalAt(models.State{Dinas: models.DinasApproved, Kecamatan: models.KecamatanRevisionRequested}), nil)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals/11/kecamatan-decision", map[string]any{
			"action": "revision", "notes": "perbaiki RAB",
		}))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "kecamatan_decision", "revision-requested")
	})

	s.Run("unknown action is rejected before the service", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals/11/kecamatan-decision", map[string]any{
			"action": "escalate",
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("invalid transition is a conflict naming the state", func() {
		s.service.EXPECT().
			KecamatanDecide(gomock.Any(), domain.ProposalID(11), models.KecamatanApprove, "").
			Return(nil, dErrors.New(dErrors.CodeInvalidTransition, "cannot kecamatan approve: proposal is not submitted to kecamatan"))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals/11/kecamatan-decision", map[string]any{"action": "approve"}))

		testutil.AssertStatus(s.T(), rr, http.StatusConflict)
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		assert.Equal(s.T(), string(dErrors.CodeInvalidTransition), body["error"])
		assert.Contains(s.T(), body["error_description"], "not submitted to kecamatan")
	})

	s.Run("malformed id", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals/abc/kecamatan-decision", map[string]any{"action": "approve"}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *ProposalHandlerSuite) TestReview() {
	s.Run("unmet preconditions are listed", func() {
		s.service.EXPECT().SubmitReview(gomock.Any(), domain.VillageID(7), models.ReviewSubmit).
			Return(nil, dErrors.WithDetails(dErrors.CodeInvalidTransition, "cannot submit review", []string{
				"submission channel for district 2 is closed",
				"village 7 has no cover letter",
			}))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/villages/7/review", map[string]any{"action": "submit"}))

		testutil.AssertStatus(s.T(), rr, http.StatusConflict)
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		details, ok := body["details"].([]any)
		require.True(s.T(), ok)
		assert.Len(s.T(), details, 2)
	})

	s.Run("concurrent change is retryable", func() {
		s.service.EXPECT().SubmitReview(gomock.Any(), domain.VillageID(7), models.ReviewReturn).
			Return(nil, dErrors.New(dErrors.CodeConcurrencyConflict, "proposal state changed, please refresh"))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/villages/7/review", map[string]any{"action": "return"}))

		testutil.AssertStatus(s.T(), rr, http.StatusConflict)
		testutil.AssertJSONContains(s.T(), rr, "retryable", true)
	})

	s.Run("success reports affected rows", func() {
		s.service.EXPECT().SubmitReview(gomock.Any(), domain.VillageID(7), models.ReviewSubmit).
			Return(&models.ReviewResult{VillageID: 7, Action: models.ReviewSubmit, Affected: 2, ProposalIDs: []domain.ProposalID{11, 12}}, nil)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/villages/7/review", map[string]any{"action": "submit"}))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "affected", float64(2))
	})
}

func (s *ProposalHandlerSuite) TestStorageFailureHidesCause() {
	s.service.EXPECT().Get(gomock.Any(), domain.ProposalID(11)).
		Return(nil, dErrors.New(dErrors.CodeStorage, "load proposal: dial tcp 10.0.0.4:5432"))

	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/proposals/11"))

	testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	assert.NotContains(s.T(), body, "error_description")
}

func (s *ProposalHandlerSuite) TestSetChannel() {
	s.service.EXPECT().SetChannelOpen(gomock.Any(), domain.DistrictID(2), false).Return(nil)

	rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/districts/2/submission-channel", map[string]any{"open": false}))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/districts/2/submission-channel", map[string]any{}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}
