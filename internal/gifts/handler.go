package gifts

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

type giftsApi interface {
	List(ctx context.Context, eventID string) ([]Gift, error)
	Create(ctx context.Context, eventID string, params NewGiftParams) (Gift, error)
	Delete(ctx context.Context, eventID, giftID string) error
}

// Handler serves the gift fund of the currently selected event
type Handler struct {
	api       giftsApi
	selection events.Selection
	metrics   *metrics.Manager
}

func NewHandler(api giftsApi, selection events.Selection, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:       api,
		selection: selection,
		metrics:   metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	giftsRouter := router.PathPrefix("/admin/gifts").Subrouter()
	giftsRouter.HandleFunc("", h.handleList).Methods("GET")
	giftsRouter.HandleFunc("", h.handleCreate).Methods("POST")
	giftsRouter.HandleFunc("/{id}", h.handleDelete).Methods("DELETE")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	gifts, err := h.api.List(r.Context(), event.ID)
	if err != nil {
		log.Errorf("list gifts: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	if gifts == nil {
		gifts = []Gift{}
	}
	pkg.SendJSON(w, http.StatusOK, gifts)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	var params NewGiftParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		pkg.SendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.Name == "" {
		pkg.SendJSONError(w, http.StatusBadRequest, "gift name is required")
		return
	}

	gift, err := h.api.Create(r.Context(), event.ID, params)
	if err != nil {
		log.Errorf("create gift: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	pkg.SendJSON(w, http.StatusCreated, gift)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	giftID := mux.Vars(r)["id"]
	if err := h.api.Delete(r.Context(), event.ID, giftID); err != nil {
		log.Errorf("delete gift %s: %s", giftID, err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
