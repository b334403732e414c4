package profile

import (
	"context"
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate go run go.uber.org/mock/mockgen -source=handler.go -destination=mocks_test.go -package=profile

type profileApi interface {
	Me(ctx context.Context) (Profile, error)
}

type Handler struct {
	api     profileApi
	store   *Store
	metrics *metrics.Manager
}

func NewHandler(api profileApi, store *Store, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:     api,
		store:   store,
		metrics: metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/admin/profile", h.handleGet).Methods("GET")
}

// handleGet serves the cached profile, fetching it lazily from the core
// API on the first read after sign-in (or after the cache entry expired)
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	visitorID, ok := middleware.VisitorIDFromContext(ctx)
	if !ok {
		pkg.SendJSONError(w, http.StatusInternalServerError, "oops, something went wrong")
		return
	}

	if profile, ok := h.store.Get(visitorID); ok {
		pkg.SendJSON(w, http.StatusOK, profile)
		return
	}

	profile, err := h.api.Me(ctx)
	if err != nil {
		log.Errorf("fetch profile for visitor %s: %s", visitorID, err)
		corehub.WriteError(w, h.metrics, err)
		return
	}

	if err := h.store.Set(visitorID, profile); err != nil {
		// serve it anyway, just without the cache warm
		log.Errorf("cache profile for visitor %s: %s", visitorID, err)
	}

	pkg.SendJSON(w, http.StatusOK, profile)
}
