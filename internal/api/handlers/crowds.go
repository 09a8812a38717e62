// Package handlers contains the HTTP handler implementations for the
// SlopeScout API. Handlers are thin: they decode and validate requests,
// delegate to injected service interfaces, and render the standard response
// envelope. Each handler defines its service dependencies as local
// interfaces for testability.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"slopescout/internal/core"
	"slopescout/internal/types"
)

// CrowdEstimator produces per-date crowd estimates, optionally informed by
// weather for powder-day bumps.
type CrowdEstimator interface {
	Estimate(dates []string, weatherByDate map[string]types.DailyWeather) []types.DailyCrowd
}

// EstimateCrowdsRequest is the request body for POST /v1/crowds.
type EstimateCrowdsRequest struct {
	Dates       []string             `json:"dates" validate:"required,min=1,max=31,dive,iso_date"`
	WeatherData []types.DailyWeather `json:"weatherData,omitempty" validate:"omitempty,max=31"`
}

// EstimateCrowdsResponse is the response body for POST /v1/crowds.
type EstimateCrowdsResponse struct {
	Crowds []types.DailyCrowd `json:"crowds"`
}

// CrowdHandler serves crowd estimation requests.
type CrowdHandler struct {
	estimator CrowdEstimator
	validator *core.Validator
	logger    *slog.Logger
}

// NewCrowdHandler creates a CrowdHandler.
func NewCrowdHandler(estimator CrowdEstimator, v *core.Validator, l *slog.Logger) *CrowdHandler {
	if l == nil {
		l = slog.Default()
	}
	return &CrowdHandler{estimator: estimator, validator: v, logger: l}
}

// RegisterRoutes mounts crowd routes on the provided chi.Router.
func (h *CrowdHandler) RegisterRoutes(r chi.Router) {
	r.Post("/crowds", h.Estimate)
}

// Estimate handles POST /v1/crowds.
func (h *CrowdHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateCrowdsRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	weatherByDate := make(map[string]types.DailyWeather, len(req.WeatherData))
	for _, wd := range req.WeatherData {
		weatherByDate[wd.Date] = wd
	}

	crowds := h.estimator.Estimate(req.Dates, weatherByDate)

	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: EstimateCrowdsResponse{Crowds: crowds},
	})
}
