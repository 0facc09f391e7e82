package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"landregistry/internal/transfer/models"
	"landregistry/internal/transfer/service"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/notify"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/requestcontext"
)

// Service is the transfer workflow as seen by HTTP.
type Service interface {
	Template() service.Template
	Initiate(ctx context.Context, details models.Details) (*models.Transfer, error)
	Restart(ctx context.Context, id string) (*models.Transfer, error)
	CompleteStep(ctx context.Context, id string) (*models.Transfer, models.Step, error)
	Reset(ctx context.Context, id string, details models.Details) (*models.Transfer, error)
	Get(ctx context.Context, id string) (*models.Transfer, error)
}

type Handler struct {
	logger    *slog.Logger
	transfers Service
}

func New(transfers Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, transfers: transfers}
}

// Register registers the transfer routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/process-transfer", func(r chi.Router) {
		r.Get("/", h.handleTemplate)
		r.Post("/", h.handleInitiate)
		r.Get("/{transferID}", h.handleGet)
		r.Post("/{transferID}/initiate", h.handleRestart)
		r.Post("/{transferID}/complete-step", h.handleCompleteStep)
		r.Post("/{transferID}/reset", h.handleReset)
	})
}

// TransferResponse is a transfer plus its fee summary and the toast to show.
type TransferResponse struct {
	Transfer     *models.Transfer     `json:"transfer"`
	CurrentStep  *models.Step         `json:"current_step,omitempty"`
	Fees         models.FeeSummary    `json:"fees"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

func newTransferResponse(t *models.Transfer, n *notify.Notification) TransferResponse {
	resp := TransferResponse{Transfer: t, Fees: t.Fees(), Notification: n}
	if step, ok := t.CurrentStep(); ok {
		resp.CurrentStep = &step
	}
	return resp
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.transfers.Template())
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var details models.Details
	if err := httputil.DecodeJSON(r, &details); err != nil {
		h.writeError(ctx, w, err, "invalid transfer request")
		return
	}

	transfer, err := h.transfers.Initiate(ctx, details)
	if err != nil {
		h.writeError(ctx, w, err, "transfer initiation failed")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, newTransferResponse(transfer,
		notify.Info("Transfer Process Initiated",
			"Land transfer process has been started. Please complete all required steps.")))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transfer, err := h.transfers.Get(ctx, chi.URLParam(r, "transferID"))
	if err != nil {
		h.writeError(ctx, w, err, "transfer lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransferResponse(transfer, nil))
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transfer, err := h.transfers.Restart(ctx, chi.URLParam(r, "transferID"))
	if err != nil {
		h.writeError(ctx, w, err, "transfer initiation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransferResponse(transfer,
		notify.Info("Transfer Process Initiated",
			"Land transfer process has been started. Please complete all required steps.")))
}

func (h *Handler) handleCompleteStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transfer, step, err := h.transfers.CompleteStep(ctx, chi.URLParam(r, "transferID"))
	if err != nil {
		h.writeError(ctx, w, err, "step completion failed")
		return
	}

	n := notify.Info("Step Completed", fmt.Sprintf("%s completed (%s).", step.Title, step.Fee))
	if transfer.Status == models.StatusCompleted {
		n = notify.Info("Transfer Completed",
			fmt.Sprintf("Land %s has been transferred to %s.", transfer.LandID, transfer.NewOwner))
	}
	httputil.WriteJSON(w, http.StatusOK, newTransferResponse(transfer, n))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var details models.Details
	if err := httputil.DecodeJSON(r, &details); err != nil {
		h.writeError(ctx, w, err, "invalid transfer request")
		return
	}

	transfer, err := h.transfers.Reset(ctx, chi.URLParam(r, "transferID"), details)
	if err != nil {
		h.writeError(ctx, w, err, "transfer reset failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransferResponse(transfer,
		notify.Info("Transfer Details Updated", "Review the details and initiate the transfer again.")))
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	code := dErrors.CodeOf(err)
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"code", string(code),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
