package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"landregistry/internal/land/handler/mocks"
	"landregistry/internal/land/models"
	"landregistry/internal/platform/logger"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/notify"
	"landregistry/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type LandHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestLandHandlerSuite(t *testing.T) {
	suite.Run(t, new(LandHandlerSuite))
}

func (s *LandHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, logger.Discard()).Register(s.router)
}

func (s *LandHandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func sampleRecord() *models.LandRecord {
	return &models.LandRecord{
		LandID:           "LT-2024-002",
		OwnerName:        "Sarah Nakato",
		Location:         "Entebbe, Victoria Gardens",
		District:         "Wakiso",
		Size:             decimal.RequireFromString("1.8"),
		Status:           models.StatusActive,
		RegistrationDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		GPSCoordinates:   "0.0640° N, 32.4434° E",
		LandUse:          "Commercial",
	}
}

func (s *LandHandlerSuite) TestRegistrationForm() {
	rr := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/register-land"))
	s.Equal(http.StatusOK, rr.Code)

	var form RegistrationForm
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &form))
	s.Len(form.LandUses, 5)
	s.Contains(form.Documents, "Survey Plan")
}

func (s *LandHandlerSuite) TestRegister() {
	s.Run("created with notification", func() {
		s.service.EXPECT().Register(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req models.RegisterRequest) (*models.LandRecord, error) {
				s.Equal("LT-2024-002", req.LandID)
				s.True(req.Size.Valid)
				return sampleRecord(), nil
			})

		rr := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/register-land", map[string]any{
			"land_id":    "LT-2024-002",
			"owner_name": "Sarah Nakato",
			"size":       "1.8",
		}))
		s.Equal(http.StatusCreated, rr.Code)

		var resp RegisterResponse
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
		s.Equal("LT-2024-002", resp.Record.LandID)
		s.Equal("Land Registration Initiated", resp.Notification.Title)
		s.Equal(notify.VariantDefault, resp.Notification.Variant)
	})

	s.Run("missing field maps to 422 with destructive notification", func() {
		s.service.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeMissingField, "owner_name is required"))

		rr := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/register-land", map[string]any{"land_id": "X"}))
		s.Equal(http.StatusUnprocessableEntity, rr.Code)
		testutil.AssertErrorCode(s.T(), rr, "missing_field")
		testutil.AssertDestructiveNotification(s.T(), rr, "Missing Information")
	})

	s.Run("unknown body field is a bad request", func() {
		rr := s.serve(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/register-land", `{"nft_id":"x"}`))
		s.Equal(http.StatusBadRequest, rr.Code)
		testutil.AssertErrorCode(s.T(), rr, "bad_request")
	})
}

func (s *LandHandlerSuite) TestSearch() {
	s.Run("defaults field to landId", func() {
		s.service.EXPECT().Search(gomock.Any(), "landId", "2024-002").
			Return([]models.LandRecord{*sampleRecord()}, nil)

		rr := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/search-records", SearchRequest{Query: "2024-002"}))
		s.Equal(http.StatusOK, rr.Code)

		var resp SearchResponse
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
		s.Equal(1, resp.Count)
		s.Empty(resp.Message)
		s.Equal("Found 1 record(s).", resp.Notification.Description)
	})

	s.Run("zero results", func() {
		s.service.EXPECT().Search(gomock.Any(), "ownerName", "zzz").Return([]models.LandRecord{}, nil)

		rr := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/search-records", SearchRequest{Field: "ownerName", Query: "zzz"}))
		s.Equal(http.StatusOK, rr.Code)

		var resp SearchResponse
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
		s.Zero(resp.Count)
		s.Equal("No records found", resp.Message)
		s.Equal("Found 0 record(s).", resp.Notification.Description)
	})

	s.Run("empty query", func() {
		s.service.EXPECT().Search(gomock.Any(), "gps", "").
			Return(nil, dErrors.New(dErrors.CodeEmptyQuery, "search query is required"))

		rr := s.serve(testutil.NewJSONRequest(s.T(), http.MethodPost, "/search-records", SearchRequest{Field: "gps"}))
		s.Equal(http.StatusUnprocessableEntity, rr.Code)
		testutil.AssertDestructiveNotification(s.T(), rr, "Search Query Required")
	})
}

func (s *LandHandlerSuite) TestGetRecord() {
	s.service.EXPECT().Get(gomock.Any(), "LT-404").Return(nil, dErrors.New(dErrors.CodeNotFound, "land LT-404 not found"))

	rr := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/search-records/LT-404"))
	s.Equal(http.StatusNotFound, rr.Code)
	testutil.AssertErrorCode(s.T(), rr, "not_found")
}
