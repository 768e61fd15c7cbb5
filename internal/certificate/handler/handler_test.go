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
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bankeu/internal/certificate/handler/mocks"
	"bankeu/internal/certificate/models"
	"bankeu/internal/certificate/service"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks
type CertificateHandlerSuite struct {
	suite.Suite
	finalizer *mocks.MockFinalizer
	ledger    *mocks.MockLedger
	router    http.Handler
}

func TestCertificateHandlerSuite(t *testing.T) {
	suite.Run(t, new(CertificateHandlerSuite))
}

var kecamatanOp = domain.Actor{UserID: 3, Role: domain.RoleKecamatan, DistrictID: 2}

func (s *CertificateHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.finalizer = mocks.NewMockFinalizer(ctrl)
	s.ledger = mocks.NewMockLedger(ctrl)
	h := New(s.finalizer, s.ledger, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterPublic(r)
	s.router = r
}

func (s *CertificateHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithActor(req, kecamatanOp))
}

func (s *CertificateHandlerSuite) TestFinalize() {
	s.Run("issues and returns the code", func() {
		s.finalizer.EXPECT().Finalize(gomock.Any(), service.FinalizeRequest{
			ProposalID: 11, File: models.FileMeta{Path: "ba/11.pdf", Name: "11.pdf", Size: 2048},
		}).Return(&models.IssueResult{HistoryID: 1, Version: 1, Code: "BA-2-11-1-DEADBEEF"}, nil)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals/11/certificate", map[string]any{
			"file_path": " ba/11.pdf", "file_name": "11.pdf", "file_size": 2048,
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "code", "BA-2-11-1-DEADBEEF")
	})

	s.Run("incomplete roster is unprocessable with details", func() {
		s.finalizer.EXPECT().Finalize(gomock.Any(), gomock.Any()).Return(nil,
			dErrors.WithDetails(dErrors.CodeIncompleteRoster, "verification roster is incomplete", []string{"roster has no active chair"}))
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals/11/certificate", map[string]any{
			"file_path": "ba/11.pdf", "file_name": "11.pdf",
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeIncompleteRoster))
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		assert.Equal(s.T(), []any{"roster has no active chair"}, body["details"])
	})

	s.Run("file path is required", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/proposals/11/certificate", map[string]any{"file_name": "x.pdf"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *CertificateHandlerSuite) TestHistory() {
	issued := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s.ledger.EXPECT().History(gomock.Any(), domain.VillageID(7), domain.SomeActivity(3)).
		Return([]*models.Entry{{ID: 2, Code: "BA-B", Version: 2, IsLatest: true, IssuedAt: issued}}, nil)
	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/villages/7/certificates?activity_id=3"))
	testutil.AssertStatusOK(s.T(), rr)
	body := testutil.UnmarshalResponse[HistoryResponse](s.T(), rr)
	s.Require().Len(body.Entries, 1)
	s.Equal(2, body.Entries[0].Version)

	s.ledger.EXPECT().History(gomock.Any(), domain.VillageID(7), domain.OptionalActivity{}).Return(nil, nil)
	rr = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/villages/7/certificates"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "activity_id", nil)

	rr = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/villages/7/certificates?activity_id=x"))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *CertificateHandlerSuite) TestVerifyNeedsNoActor() {
	s.ledger.EXPECT().Verify(gomock.Any(), "ba-2-11-1-deadbeef").Return(&models.Verification{Valid: true, Version: 1, IsLatest: true}, nil)
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/certificates/verify/ba-2-11-1-deadbeef"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "valid", true)

	s.ledger.EXPECT().Verify(gomock.Any(), "nope").Return(&models.Verification{}, nil)
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/certificates/verify/nope"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "valid", false)
}
