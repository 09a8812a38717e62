package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"slopescout/internal/core"
	"slopescout/internal/external"
	"slopescout/internal/types"
)

// ResortInsightRequest is the body for POST /v1/insights/resort. Context is
// optional free text from the visitor, folded into the generated blurb.
type ResortInsightRequest struct {
	ResortID string `json:"resortId" validate:"required"`
	Days     int    `json:"days,omitempty" validate:"omitempty,min=1,max=16"`
	Context  string `json:"context,omitempty" validate:"omitempty,max=500"`
}

// ResortInsightResponse carries the generated narrative.
type ResortInsightResponse struct {
	ResortID string   `json:"resortId"`
	Dates    []string `json:"dates"`
	Insight  string   `json:"insight"`
}

// InsightHandler turns a conditions outlook into a narrative summary.
type InsightHandler struct {
	outlooks  OutlookProvider
	generator external.InsightsGenerator
	validator *core.Validator
	logger    *slog.Logger
}

// NewInsightHandler creates an InsightHandler.
func NewInsightHandler(outlooks OutlookProvider, generator external.InsightsGenerator, v *core.Validator, l *slog.Logger) *InsightHandler {
	if l == nil {
		l = slog.Default()
	}
	return &InsightHandler{outlooks: outlooks, generator: generator, validator: v, logger: l}
}

// RegisterRoutes mounts insight routes on the provided chi.Router.
func (h *InsightHandler) RegisterRoutes(r chi.Router) {
	r.Post("/insights/resort", h.ResortInsight)
}

// ResortInsight handles POST /v1/insights/resort.
func (h *InsightHandler) ResortInsight(w http.ResponseWriter, r *http.Request) {
	var req ResortInsightRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	outlook, err := h.outlooks.ConditionsOutlook(r.Context(), req.ResortID, req.Days)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	dates := make([]string, 0, len(outlook.Data))
	conditions := make([]types.Ridability, 0, len(outlook.Data))
	for _, day := range outlook.Data {
		dates = append(dates, day.Date)
		conditions = append(conditions, day.Ridability)
	}

	identity := external.ResortIdentity{
		Name:   outlook.Resort.Name,
		State:  outlook.Resort.State,
		Region: outlook.Resort.Region,
	}
	insight, err := h.generator.ResortInsight(r.Context(), identity, dates, conditions, req.Context)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ResortInsightResponse{
		ResortID: req.ResortID,
		Dates:    dates,
		Insight:  insight,
	}})
}
