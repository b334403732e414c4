package events

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate go run go.uber.org/mock/mockgen -source=handler.go -destination=mocks_test.go -package=events

type eventsApi interface {
	List(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, params NewEventParams) (Event, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	api     eventsApi
	store   *Store
	metrics *metrics.Manager
}

func NewHandler(api eventsApi, store *Store, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:     api,
		store:   store,
		metrics: metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	eventsRouter := router.PathPrefix("/admin/events").Subrouter()
	eventsRouter.HandleFunc("", h.handleList).Methods("GET")
	eventsRouter.HandleFunc("", h.handleCreate).Methods("POST")
	eventsRouter.HandleFunc("/selected", h.handleGetSelected).Methods("GET")
	eventsRouter.HandleFunc("/selected", h.handleSelect).Methods("PUT")
	eventsRouter.HandleFunc("/{id}", h.handleDelete).Methods("DELETE")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.api.List(r.Context())
	if err != nil {
		log.Errorf("list events: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	pkg.SendJSON(w, http.StatusOK, events)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var params NewEventParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		pkg.SendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.Name == "" {
		pkg.SendJSONError(w, http.StatusBadRequest, "event name is required")
		return
	}

	event, err := h.api.Create(r.Context(), params)
	if err != nil {
		log.Errorf("create event: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}

	pkg.SendJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	visitorID, ok := middleware.VisitorIDFromContext(ctx)
	if !ok {
		pkg.SendJSONError(w, http.StatusInternalServerError, "oops, something went wrong")
		return
	}

	if err := h.api.Delete(ctx, id); err != nil {
		log.Errorf("delete event %s: %s", id, err)
		corehub.WriteError(w, h.metrics, err)
		return
	}

	if selected, ok := h.store.Get(visitorID); ok && selected.ID == id {
		if err := h.store.Clear(ctx, visitorID); err != nil {
			log.Errorf("clear selection after deleting event %s: %s", id, err)
		}
	}

	// the selection becomes meaningless when no events remain
	if events, err := h.api.List(ctx); err != nil {
		log.Warnf("list events after delete: %s", err)
	} else if len(events) == 0 {
		if err := h.store.Clear(ctx, visitorID); err != nil {
			log.Errorf("clear selection after last event deleted: %s", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetSelected(w http.ResponseWriter, r *http.Request) {
	visitorID, ok := middleware.VisitorIDFromContext(r.Context())
	if !ok {
		pkg.SendJSONError(w, http.StatusInternalServerError, "oops, something went wrong")
		return
	}

	event, ok := h.store.Get(visitorID)
	if !ok {
		pkg.SendJSONError(w, http.StatusNotFound, "no event selected")
		return
	}

	pkg.SendJSON(w, http.StatusOK, event)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	visitorID, ok := middleware.VisitorIDFromContext(ctx)
	if !ok {
		pkg.SendJSONError(w, http.StatusInternalServerError, "oops, something went wrong")
		return
	}

	var selectReq struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&selectReq); err != nil {
		pkg.SendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if selectReq.ID == "" {
		pkg.SendJSONError(w, http.StatusBadRequest, "event id is required")
		return
	}

	events, err := h.api.List(ctx)
	if err != nil {
		log.Errorf("list events for selection: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}

	for _, event := range events {
		if event.ID == selectReq.ID {
			if err := h.store.Select(ctx, visitorID, event); err != nil {
				log.Errorf("persist selection of event %s: %s", event.ID, err)
				pkg.SendJSONError(w, http.StatusInternalServerError, "oops, something went wrong")
				return
			}
			pkg.SendJSON(w, http.StatusOK, event)
			return
		}
	}

	pkg.SendJSONError(w, http.StatusNotFound, "event not found")
}
