package posts

import (
	"context"
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/events"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type postsApi interface {
	List(ctx context.Context, eventID string) ([]Post, error)
	Delete(ctx context.Context, eventID, postID string) error
}

type Handler struct {
	api       postsApi
	selection events.Selection
	metrics   *metrics.Manager
}

func NewHandler(api postsApi, selection events.Selection, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:       api,
		selection: selection,
		metrics:   metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	postsRouter := router.PathPrefix("/admin/posts").Subrouter()
	postsRouter.HandleFunc("", h.handleList).Methods("GET")
	postsRouter.HandleFunc("/{id}", h.handleDelete).Methods("DELETE")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	posts, err := h.api.List(r.Context(), event.ID)
	if err != nil {
		log.Errorf("list posts: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	if posts == nil {
		posts = []Post{}
	}
	pkg.SendJSON(w, http.StatusOK, posts)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	postID := mux.Vars(r)["id"]
	if err := h.api.Delete(r.Context(), event.ID, postID); err != nil {
		log.Errorf("delete post %s: %s", postID, err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
