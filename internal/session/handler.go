package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
) {
	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")
	loginSubrouter.
		HandleFunc("/forgot-password", handler.handleForgotPassword).
		Methods("POST", "OPTIONS").Name("forgot-password")

	// rate limit the whole auth surface to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginAllowedPerMin, handler.metrics))
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var creds credentialsRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			pkg.SendJSONError(w, http.StatusBadRequest, "login failed")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			pkg.SendJSONError(w, http.StatusBadRequest, "login failed")
			return
		}
		creds = credentialsRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	visitorID, ok := middleware.VisitorIDFromContext(r.Context())
	if !ok {
		log.Errorf("login failed, no visitor id on request")
		pkg.SendJSONError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if _, err := handler.service.SignIn(r.Context(), visitorID, creds.Email, creds.Password); err != nil {
		handler.writeAuthError(w, "login", err)
		return
	}

	handler.metrics.CounterLogins.Inc()

	// full navigation to root: forces the whole client state to
	// re-initialise after login instead of relying on reactive re-render
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	// navigation to the login page must happen no matter what the
	// clearing fan-out below runs into
	defer http.Redirect(w, r, "/login", http.StatusSeeOther)

	visitorID, ok := middleware.VisitorIDFromContext(r.Context())
	if !ok {
		return
	}

	if err := handler.service.SignOut(r.Context(), visitorID); err != nil {
		log.Errorf("sign out visitor %s: %s", visitorID, err)
	}
	handler.metrics.CounterSignOuts.Inc()
}

func (handler *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.SendJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" {
		pkg.SendJSONError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := handler.service.ForgotPassword(r.Context(), req.Email); err != nil {
		handler.writeAuthError(w, "forgot password", err)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"sent":true}`)
}

// writeAuthError rejects bad input directly and leaves every core API
// failure to the shared translator, which also counts it
func (handler *Handler) writeAuthError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrMissingCredentials) {
		pkg.SendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if apiErr, ok := corehub.AsAPIError(err); ok {
		log.Tracef("%s rejected by core api: %s", op, apiErr.Message)
	} else {
		log.Errorf("%s failed: %s", op, err)
	}
	corehub.WriteError(w, handler.metrics, err)
}
