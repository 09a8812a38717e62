package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"slopescout/internal/core"
	"slopescout/internal/trips"
	"slopescout/internal/types"
)

// TripComparer runs the forecast-vs-history comparison for a resort trip.
type TripComparer interface {
	CompareTrip(ctx context.Context, resortID, start, end string) (*types.TripComparison, error)
}

// OutlookProvider builds the per-day conditions outlook for a resort.
type OutlookProvider interface {
	ConditionsOutlook(ctx context.Context, resortID string, days int) (*trips.Outlook, error)
}

// TripHandler serves trip comparison and conditions outlook requests.
type TripHandler struct {
	comparer TripComparer
	outlooks OutlookProvider
	logger   *slog.Logger
}

// NewTripHandler creates a TripHandler.
func NewTripHandler(comparer TripComparer, outlooks OutlookProvider, l *slog.Logger) *TripHandler {
	if l == nil {
		l = slog.Default()
	}
	return &TripHandler{comparer: comparer, outlooks: outlooks, logger: l}
}

// RegisterRoutes mounts trip routes on the provided chi.Router.
func (h *TripHandler) RegisterRoutes(r chi.Router) {
	r.Get("/trips/compare", h.Compare)
	r.Get("/conditions", h.Conditions)
}

// Compare handles GET /v1/trips/compare?resort_id&start&end.
func (h *TripHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resortID := q.Get("resort_id")
	if resortID == "" {
		core.Error(w, r, types.NewAppErrorWithDetails(
			types.ErrCodeValidationMissingField,
			"missing required query parameter",
			nil,
			map[string]any{"parameter": "resort_id"},
		))
		return
	}

	start, end := q.Get("start"), q.Get("end")
	if _, _, err := types.ParseDateRange(start, end); err != nil {
		core.Error(w, r, err)
		return
	}

	comparison, err := h.comparer.CompareTrip(r.Context(), resortID, start, end)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: comparison})
}

// Conditions handles GET /v1/conditions?resort_id&days. An absent or
// out-of-range days parameter falls back to the full forecast horizon.
func (h *TripHandler) Conditions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resortID := q.Get("resort_id")
	if resortID == "" {
		core.Error(w, r, types.NewAppErrorWithDetails(
			types.ErrCodeValidationMissingField,
			"missing required query parameter",
			nil,
			map[string]any{"parameter": "resort_id"},
		))
		return
	}

	days := 0
	if raw := q.Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			core.Error(w, r, types.NewAppError(types.ErrCodeValidationInvalidDays,
				"days must be a positive integer", err))
			return
		}
		days = parsed
	}

	outlook, err := h.outlooks.ConditionsOutlook(r.Context(), resortID, days)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: outlook})
}
