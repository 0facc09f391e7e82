package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/requestcontext"
)

type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
}

// handleDashboard reads the role placed on the context by the role
// middleware.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.svc.Build(ctx, requestcontext.Role(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard request rejected",
			"request_id", requestcontext.RequestID(ctx),
			"code", string(dErrors.CodeOf(err)),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}
