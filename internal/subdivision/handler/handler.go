package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"landregistry/internal/rules"
	"landregistry/internal/subdivision/models"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/notify"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/requestcontext"
)

type Service interface {
	Submit(ctx context.Context, req models.SubmitRequest) (*models.Submission, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	ListByLand(ctx context.Context, landID string) ([]*models.Submission, error)
}

type Handler struct {
	logger       *slog.Logger
	subdivisions Service
}

func New(subdivisions Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, subdivisions: subdivisions}
}

// Register registers the subdivision routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/land-subdivision", h.handleForm)
	r.Post("/land-subdivision", h.handleSubmit)
	r.Get("/land-subdivision/{subdivisionID}", h.handleGet)
}

// Form is the starting subdivision form. ?land_id= lists earlier requests
// for that plot.
type Form struct {
	MinParcels  int                  `json:"min_parcels"`
	Parcels     []models.Parcel      `json:"parcels"`
	Submissions []*models.Submission `json:"submissions,omitempty"`
}

type SubmitResponse struct {
	Subdivision  *models.Submission   `json:"subdivision"`
	Notification *notify.Notification `json:"notification"`
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := Form{MinParcels: rules.MinParcels, Parcels: models.DefaultParcels()}
	if landID := r.URL.Query().Get("land_id"); landID != "" {
		subs, err := h.subdivisions.ListByLand(ctx, landID)
		if err != nil {
			h.writeError(ctx, w, err, "subdivision listing failed")
			return
		}
		form.Submissions = subs
	}
	httputil.WriteJSON(w, http.StatusOK, form)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SubmitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid subdivision request")
		return
	}

	sub, err := h.subdivisions.Submit(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err, "subdivision submission failed")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, SubmitResponse{
		Subdivision: sub,
		Notification: notify.Info("Subdivision Process Initiated",
			fmt.Sprintf("%d new parcels will be created.", sub.NewParcelCount)),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sub, err := h.subdivisions.Get(ctx, chi.URLParam(r, "subdivisionID"))
	if err != nil {
		h.writeError(ctx, w, err, "subdivision lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"code", string(dErrors.CodeOf(err)),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
