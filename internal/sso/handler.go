package sso

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/internal/session"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	providers map[string]Provider
	sessions  *session.Service
	metrics   *metrics.Manager
}

func NewHandler(sessions *session.Service, metricsManager *metrics.Manager, providers ...Provider) *Handler {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Handler{
		providers: byName,
		sessions:  sessions,
		metrics:   metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	authRouter := router.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/{provider}", h.handleInitiate).Methods("GET").Name("sso-initiate")
	authRouter.HandleFunc("/{provider}/callback", h.handleCallback).Methods("GET").Name("sso-callback")
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	provider, ok := h.providers[vars["provider"]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	redirectURL, err := provider.Initiate(r.Context(), callbackURL(r, provider.Name()))
	if err != nil {
		log.Errorf("initiate %s sso: %s", provider.Name(), err)
		redirectToLoginWithError(w, r, "sign in with "+provider.Name()+" is unavailable, try again later")
		return
	}

	// send the browser off to the provider's consent screen
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	provider, ok := h.providers[vars["provider"]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	token, err := provider.CompleteCallback(ctx, callbackURL(r, provider.Name()), r.URL.Query())
	if err != nil {
		log.Errorf("complete %s sso callback: %s", provider.Name(), err)
		redirectToLoginWithError(w, r, "sign in with "+provider.Name()+" failed")
		return
	}

	visitorID, ok := middleware.VisitorIDFromContext(ctx)
	if !ok {
		log.Errorf("complete %s sso callback: no visitor id on request", provider.Name())
		redirectToLoginWithError(w, r, "sign in with "+provider.Name()+" failed")
		return
	}

	if _, err := h.sessions.SSOLogin(ctx, visitorID, token); err != nil {
		log.Errorf("commit %s sso session for visitor %s: %s", provider.Name(), visitorID, err)
		redirectToLoginWithError(w, r, "sign in with "+provider.Name()+" failed")
		return
	}

	h.metrics.CounterSSOLogins.With(prometheus.Labels{"provider": provider.Name()}).Inc()
	log.Debugf("visitor %s signed in via %s", visitorID, provider.Name())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func redirectToLoginWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(message), http.StatusSeeOther)
}

// callbackURL reconstructs the externally visible callback address from
// the incoming request, so the exchange step sees the exact URL the
// provider redirected to.
func callbackURL(r *http.Request, providerName string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/auth/%s/callback", scheme, r.Host, providerName)
}
