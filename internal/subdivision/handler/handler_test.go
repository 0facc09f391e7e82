package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"landregistry/internal/platform/logger"
	"landregistry/internal/subdivision/handler/mocks"
	"landregistry/internal/subdivision/models"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

func newRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	svc := mocks.NewMockService(gomock.NewController(t))
	r := chi.NewRouter()
	New(svc, logger.Discard()).Register(r)
	return r, svc
}

func TestSubdivisionFlow(t *testing.T) {
	testutil.Scenario(t, "applicant splits a plot into two parcels", func(t *testing.T) {
		router, svc := newRouter(t)

		testutil.Given(t, "the blank form", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/land-subdivision"))
			testutil.AssertStatusOK(t, rr)

			form := testutil.UnmarshalResponse[Form](t, rr)
			assert.Equal(t, 2, form.MinParcels)
			require.Len(t, form.Parcels, 2)
			assert.Equal(t, "Parcel A", form.Parcels[0].Name)
			assert.Equal(t, "Residential", form.Parcels[1].LandUse)
			assert.Empty(t, form.Submissions)
		})

		testutil.When(t, "the split leaves a residue", func(t *testing.T) {
			svc.EXPECT().Submit(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ any, req models.SubmitRequest) (*models.Submission, error) {
					assert.Equal(t, "LT-2024-003", req.OriginalLandID)
					assert.True(t, req.OriginalSize.Decimal.Equal(decimal.NewFromInt(10)))
					require.Len(t, req.Parcels, 2)
					return &models.Submission{
						ID:             "sub-1",
						OriginalLandID: req.OriginalLandID,
						OriginalSize:   req.OriginalSize.Decimal,
						Parcels:        req.Parcels,
						Total:          decimal.NewFromInt(7),
						Residue:        decimal.NewFromInt(3),
						NewParcelCount: 3,
						Status:         models.StatusSubmitted,
						SubmittedAt:    time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC),
					}, nil
				})

			rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/land-subdivision", `{
				"original_land_id": "LT-2024-003",
				"original_size": "10",
				"reason": "Family inheritance",
				"parcels": [
					{"id": "1", "name": "Parcel A", "size": "3", "coordinates": "0.42, 33.20", "land_use": "Residential"},
					{"id": "2", "name": "Parcel B", "size": "4", "coordinates": "0.43, 33.21", "land_use": "Agricultural"}
				]
			}`))
			testutil.AssertStatus(t, rr, http.StatusCreated)

			testutil.Then(t, "three new parcels are announced", func(t *testing.T) {
				resp := testutil.UnmarshalResponse[SubmitResponse](t, rr)
				assert.Equal(t, "Subdivision Process Initiated", resp.Notification.Title)
				assert.Equal(t, "3 new parcels will be created.", resp.Notification.Description)
				assert.True(t, resp.Subdivision.Residue.Equal(decimal.NewFromInt(3)))
			})
		})
	})
}

func TestSubmitValidationErrors(t *testing.T) {
	tests := []struct {
		code  dErrors.Code
		title string
	}{
		{dErrors.CodeTooFewParcels, "Minimum Parcels Required"},
		{dErrors.CodeExceedsOriginal, "Invalid Subdivision"},
		{dErrors.CodeIncompleteParcel, "Incomplete Parcel Data"},
		{dErrors.CodeMissingField, "Missing Information"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			router, svc := newRouter(t)
			svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(tt.code, "rejected"))

			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/land-subdivision",
				models.SubmitRequest{OriginalLandID: "LT-2024-003"}))
			testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, string(tt.code))
			testutil.AssertDestructiveNotification(t, rr, tt.title)
		})
	}
}

func TestFormListsEarlierSubmissions(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().ListByLand(gomock.Any(), "LT-2024-003").
		Return([]*models.Submission{{ID: "sub-1", OriginalLandID: "LT-2024-003"}}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/land-subdivision?land_id=LT-2024-003"))
	testutil.AssertStatusOK(t, rr)

	var form Form
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &form))
	require.Len(t, form.Submissions, 1)
	assert.Equal(t, "sub-1", form.Submissions[0].ID)
}

func TestGetSubmission(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Get(gomock.Any(), "missing").Return(nil, dErrors.New(dErrors.CodeNotFound, "subdivision missing not found"))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/land-subdivision/missing"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}
