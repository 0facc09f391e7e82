package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"landregistry/internal/auth/handler/mocks"
	"landregistry/internal/auth/models"
	"landregistry/internal/platform/logger"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

func setup(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	svc := mocks.NewMockService(gomock.NewController(t))
	r := chi.NewRouter()
	New(svc, logger.Discard()).Register(r)
	return r, svc
}

func TestLoginForm(t *testing.T) {
	router, _ := setup(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/auth/login"))
	testutil.AssertStatusOK(t, rr)

	form := testutil.UnmarshalResponse[LoginForm](t, rr)
	require.Len(t, form.Roles, 4)
	assert.Equal(t, models.RoleAdministrator, form.Roles[0].Value)
}

func TestLogin(t *testing.T) {
	router, svc := setup(t)
	svc.EXPECT().Login(gomock.Any(), models.LoginRequest{
		Email: "david.okello@lands.go.ug", Password: "secret", Role: "valuer",
	}).Return(&models.Session{
		Email:           "david.okello@lands.go.ug",
		DisplayName:     "David Okello",
		Role:            models.RoleValuer,
		RoleLabel:       models.RoleValuer.Label(),
		AuthenticatedAt: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}, nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", models.LoginRequest{
		Email: "david.okello@lands.go.ug", Password: "secret", Role: "valuer",
	}))
	testutil.AssertStatusOK(t, rr)

	resp := testutil.UnmarshalResponse[LoginResponse](t, rr)
	assert.Equal(t, models.RoleValuer, resp.Session.Role)
	assert.Equal(t, "Welcome, David Okello.", resp.Notification.Description)
	assert.NotContains(t, rr.Body.String(), "secret")
}

func TestLoginErrors(t *testing.T) {
	router, svc := setup(t)
	svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeMissingField, "password is required"))

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@b.c"}))
	testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "missing_field")

	svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeTimeout, "request cancelled"))
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@b.c"}))
	testutil.AssertStatus(t, rr, http.StatusGatewayTimeout)
}

func TestLogout(t *testing.T) {
	router, svc := setup(t)
	svc.EXPECT().Logout(gomock.Any())

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/auth/logout"))
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "Signed Out", testutil.UnmarshalResponse[LogoutResponse](t, rr).Notification.Title)
}
