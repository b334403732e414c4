package vendors

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/events"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type vendorsApi interface {
	List(ctx context.Context, eventID string) ([]Vendor, error)
	Create(ctx context.Context, eventID string, params NewVendorParams) (Vendor, error)
	Delete(ctx context.Context, eventID, vendorID string) error
}

type Handler struct {
	api       vendorsApi
	selection events.Selection
	metrics   *metrics.Manager
}

func NewHandler(api vendorsApi, selection events.Selection, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:       api,
		selection: selection,
		metrics:   metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	vendorsRouter := router.PathPrefix("/admin/vendors").Subrouter()
	vendorsRouter.HandleFunc("", h.handleList).Methods("GET")
	vendorsRouter.HandleFunc("", h.handleCreate).Methods("POST")
	vendorsRouter.HandleFunc("/{id}", h.handleDelete).Methods("DELETE")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	vendors, err := h.api.List(r.Context(), event.ID)
	if err != nil {
		log.Errorf("list vendors: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	if vendors == nil {
		vendors = []Vendor{}
	}
	pkg.SendJSON(w, http.StatusOK, vendors)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	var params NewVendorParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		pkg.SendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.Name == "" {
		pkg.SendJSONError(w, http.StatusBadRequest, "vendor name is required")
		return
	}

	vendor, err := h.api.Create(r.Context(), event.ID, params)
	if err != nil {
		log.Errorf("create vendor: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	pkg.SendJSON(w, http.StatusCreated, vendor)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	vendorID := mux.Vars(r)["id"]
	if err := h.api.Delete(r.Context(), event.ID, vendorID); err != nil {
		log.Errorf("delete vendor %s: %s", vendorID, err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
