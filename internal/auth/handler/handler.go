package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"landregistry/internal/auth/models"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/notify"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/requestcontext"
)

type Service interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Logout(ctx context.Context)
}

type Handler struct {
	logger *slog.Logger
	auth   Service
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, auth: auth}
}

// Register registers the sign-in routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.handleLoginForm)
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
	})
}

type LoginForm struct {
	Roles []models.RoleOption `json:"roles"`
	Hint  string              `json:"hint"`
}

type LoginResponse struct {
	Session      *models.Session      `json:"session"`
	Notification *notify.Notification `json:"notification"`
}

type LogoutResponse struct {
	Notification *notify.Notification `json:"notification"`
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LoginForm{
		Roles: models.Roles(),
		Hint:  "Use any email, password, and select a role to access the demo dashboard.",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	session, err := h.auth.Login(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		Session:      session,
		Notification: notify.Info("Signed In", "Welcome, "+session.DisplayName+"."),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	httputil.WriteJSON(w, http.StatusOK, LogoutResponse{
		Notification: notify.Info("Signed Out", "You have been signed out."),
	})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	h.logger.WarnContext(ctx, "sign in failed",
		"request_id", requestcontext.RequestID(ctx),
		"code", string(dErrors.CodeOf(err)),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
