package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"landregistry/internal/land/models"
	"landregistry/internal/land/search"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/notify"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/requestcontext"
)

// Service defines the land operations the handler needs.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.LandRecord, error)
	Get(ctx context.Context, landID string) (*models.LandRecord, error)
	Search(ctx context.Context, field, query string) ([]models.LandRecord, error)
}

// Handler serves registration and record search.
type Handler struct {
	logger *slog.Logger
	land   Service
}

// New creates a new land Handler.
func New(land Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, land: land}
}

// Register registers the land routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/register-land", h.handleRegistrationForm)
	r.Post("/register-land", h.handleRegister)
	r.Get("/search-records", h.handleSearchForm)
	r.Post("/search-records", h.handleSearch)
	r.Get("/search-records/{landID}", h.handleGetRecord)
}

// RegistrationForm lists the choices offered when registering land.
type RegistrationForm struct {
	LandUses  []models.LandUseOption `json:"land_uses"`
	Documents []string               `json:"documents"`
}

// RegisterResponse wraps a newly registered record.
type RegisterResponse struct {
	Record       *models.LandRecord   `json:"record"`
	Notification *notify.Notification `json:"notification"`
}

// SearchForm lists the selectable search fields.
type SearchForm struct {
	Fields []search.FieldOption `json:"fields"`
}

// SearchRequest is the search form as posted by the client.
type SearchRequest struct {
	Field string `json:"field"`
	Query string `json:"query"`
}

// SearchResponse carries the matching records. Message is set only when
// nothing matched.
type SearchResponse struct {
	Field        string               `json:"field"`
	Query        string               `json:"query"`
	Count        int                  `json:"count"`
	Results      []models.LandRecord  `json:"results"`
	Message      string               `json:"message,omitempty"`
	Notification *notify.Notification `json:"notification"`
}

func (h *Handler) handleRegistrationForm(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, RegistrationForm{
		LandUses:  models.LandUses(),
		Documents: models.SupportingDocuments(),
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid registration request")
		return
	}

	record, err := h.land.Register(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err, "land registration failed")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Record: record,
		Notification: notify.Info("Land Registration Initiated",
			"Your land registration request has been submitted for review."),
	})
}

func (h *Handler) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, SearchForm{Fields: search.Fields()})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SearchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid search request")
		return
	}
	if req.Field == "" {
		req.Field = string(search.FieldLandID)
	}

	results, err := h.land.Search(ctx, req.Field, req.Query)
	if err != nil {
		h.writeError(ctx, w, err, "search failed")
		return
	}

	resp := SearchResponse{
		Field:        req.Field,
		Query:        req.Query,
		Count:        len(results),
		Results:      results,
		Notification: notify.Info("Search Complete", fmt.Sprintf("Found %d record(s).", len(results))),
	}
	if len(results) == 0 {
		resp.Message = "No records found"
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, err := h.land.Get(ctx, chi.URLParam(r, "landID"))
	if err != nil {
		h.writeError(ctx, w, err, "record lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	code := dErrors.CodeOf(err)
	level := slog.LevelWarn
	if httputil.StatusFor(code) >= http.StatusInternalServerError && code != dErrors.CodeTimeout {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"code", string(code),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
