package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"slopescout/internal/core"
	"slopescout/internal/resorts"
)

// ResortDirectory exposes the resort catalog.
type ResortDirectory interface {
	Get(id string) (resorts.Resort, error)
	List() []resorts.Resort
}

// ListResortsResponse wraps the full catalog listing.
type ListResortsResponse struct {
	Resorts []resorts.Resort `json:"resorts"`
}

// ResortHandler serves resort catalog lookups.
type ResortHandler struct {
	directory ResortDirectory
	logger    *slog.Logger
}

// NewResortHandler creates a ResortHandler.
func NewResortHandler(directory ResortDirectory, l *slog.Logger) *ResortHandler {
	if l == nil {
		l = slog.Default()
	}
	return &ResortHandler{directory: directory, logger: l}
}

// RegisterRoutes mounts resort routes on the provided chi.Router.
func (h *ResortHandler) RegisterRoutes(r chi.Router) {
	r.Route("/resorts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{resortID}", h.Get)
	})
}

// List handles GET /v1/resorts.
func (h *ResortHandler) List(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: ListResortsResponse{Resorts: h.directory.List()},
	})
}

// Get handles GET /v1/resorts/{resortID}.
func (h *ResortHandler) Get(w http.ResponseWriter, r *http.Request) {
	resort, err := h.directory.Get(chi.URLParam(r, "resortID"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resort})
}
