package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	return &redis_rate.Result{Allowed: 1}, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	return &redis_rate.Result{Allowed: 0}, nil
}

func newAuthRouter(t *testing.T, coreAPIURL string, limiter middleware.RequestRateLimiter) (*mux.Router, *Store) {
	t.Helper()

	store := newStoreWithLenientRedis(t)
	var api *corehub.Client
	if coreAPIURL != "" {
		api = corehub.NewClient(coreAPIURL, http.DefaultClient)
	}
	service := NewService(store, api)
	handler := NewHandler(service, metrics.NewTestManager())

	router := mux.NewRouter()
	handler.SetupRoutes(router, limiter, 15)
	return router, store
}

func serveAs(router *mux.Router, req *http.Request, visitorID string) *httptest.ResponseRecorder {
	req = req.WithContext(middleware.ContextWithVisitorID(req.Context(), visitorID))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Login_json(t *testing.T) {
	coreAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(loginResponse{Token: "tok-123"}))
	}))
	defer coreAPI.Close()

	router, store := newAuthRouter(t, coreAPI.URL, allowAllLimiter{})

	body := []byte(`{"email":"mila@example.com","password":"s3cret"}`)
	req := httptest.NewRequest("POST", "/a/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := serveAs(router, req, "visitor-1")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.True(t, store.IsAuthenticated("visitor-1"))
}

func TestHandler_Login_form(t *testing.T) {
	coreAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "mila@example.com", creds["email"])
		require.NoError(t, json.NewEncoder(w).Encode(loginResponse{Token: "tok-123"}))
	}))
	defer coreAPI.Close()

	router, store := newAuthRouter(t, coreAPI.URL, allowAllLimiter{})

	form := url.Values{"email": {"mila@example.com"}, "password": {"s3cret"}}
	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := serveAs(router, req, "visitor-1")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, store.IsAuthenticated("visitor-1"))
}

func TestHandler_Login_missingCredentials(t *testing.T) {
	router, store := newAuthRouter(t, "", allowAllLimiter{})

	req := httptest.NewRequest("POST", "/a/login", bytes.NewReader([]byte(`{"email":"mila@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := serveAs(router, req, "visitor-1")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email and password are required")
	assert.False(t, store.IsAuthenticated("visitor-1"))
}

func TestHandler_Login_coreAPIRejects(t *testing.T) {
	coreAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"wrong email or password"}`))
	}))
	defer coreAPI.Close()

	router, store := newAuthRouter(t, coreAPI.URL, allowAllLimiter{})

	req := httptest.NewRequest("POST", "/a/login", bytes.NewReader([]byte(`{"email":"a@b.c","password":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := serveAs(router, req, "visitor-1")

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	// the server-provided message is surfaced, not a generic one
	assert.Contains(t, rr.Body.String(), "wrong email or password")
	assert.False(t, store.IsAuthenticated("visitor-1"))
}

func TestHandler_Login_rateLimited(t *testing.T) {
	router, _ := newAuthRouter(t, "", denyAllLimiter{})

	req := httptest.NewRequest("POST", "/a/login", bytes.NewReader([]byte(`{"email":"a@b.c","password":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := serveAs(router, req, "visitor-1")

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestHandler_Logout(t *testing.T) {
	router, store := newAuthRouter(t, "", allowAllLimiter{})
	require.NoError(t, store.Set(context.Background(), "visitor-1", Session{AccessToken: "tok"}))

	rr := serveAs(router, httptest.NewRequest("GET", "/a/logout", nil), "visitor-1")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, store.IsAuthenticated("visitor-1"))
}

func TestHandler_Logout_redirectsEvenWhenNotSignedIn(t *testing.T) {
	router, _ := newAuthRouter(t, "", allowAllLimiter{})

	rr := serveAs(router, httptest.NewRequest("GET", "/a/logout", nil), "visitor-never-seen")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestHandler_ForgotPassword(t *testing.T) {
	coreAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/forgot-password", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer coreAPI.Close()

	router, _ := newAuthRouter(t, coreAPI.URL, allowAllLimiter{})

	req := httptest.NewRequest("POST", "/a/forgot-password", bytes.NewReader([]byte(`{"email":"mila@example.com"}`)))
	rr := serveAs(router, req, "visitor-1")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sent":true`)
}

func TestHandler_ForgotPassword_emailRequired(t *testing.T) {
	router, _ := newAuthRouter(t, "", allowAllLimiter{})

	req := httptest.NewRequest("POST", "/a/forgot-password", bytes.NewReader([]byte(`{}`)))
	rr := serveAs(router, req, "visitor-1")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
