package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/go-redis/redis_rate/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestVisitorSession_assignsCookieAndContext(t *testing.T) {
	var seenVisitorID string
	handler := VisitorSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := VisitorIDFromContext(r.Context())
		require.True(t, ok)
		seenVisitorID = id
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, seenVisitorID)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, VisitorCookieName, cookies[0].Name)
	assert.Equal(t, seenVisitorID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestVisitorSession_reusesExistingCookie(t *testing.T) {
	var seenVisitorID string
	handler := VisitorSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenVisitorID, _ = VisitorIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "known-visitor"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "known-visitor", seenVisitorID)
	assert.Empty(t, rr.Result().Cookies(), "no new cookie for a known visitor")
}

type staticAuthChecker struct {
	authenticated map[string]bool
}

func (c *staticAuthChecker) IsAuthenticated(visitorID string) bool {
	return c.authenticated[visitorID]
}

func TestAuthCheck(t *testing.T) {
	checker := &staticAuthChecker{authenticated: map[string]bool{"signed-in": true}}
	guarded := NewAuthMiddlewareHandler(checker).AuthCheck()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot) // marker: the handler ran
		}),
	)

	tests := []struct {
		name       string
		path       string
		visitorID  string
		acceptHTML bool
		wantStatus int
		wantTarget string
	}{
		{
			name:       "public path, anonymous",
			path:       "/login",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "sso callback, anonymous",
			path:       "/auth/google/callback",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "protected path, signed in",
			path:       "/admin/events",
			visitorID:  "signed-in",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "protected path, anonymous api call",
			path:       "/admin/events",
			visitorID:  "stranger",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "protected path, anonymous page navigation",
			path:       "/admin/events",
			visitorID:  "stranger",
			acceptHTML: true,
			wantStatus: http.StatusSeeOther,
			wantTarget: "/login",
		},
		{
			name:       "protected path, no visitor id at all",
			path:       "/admin/events",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.visitorID != "" {
				req = req.WithContext(ContextWithVisitorID(req.Context(), tc.visitorID))
			}
			if tc.acceptHTML {
				req.Header.Set("Accept", "text/html,application/xhtml+xml")
			}

			rr := httptest.NewRecorder()
			guarded.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantTarget != "" {
				assert.Equal(t, tc.wantTarget, rr.Header().Get("Location"))
			}
		})
	}
}

func TestAuthCheck_options(t *testing.T) {
	guarded := NewAuthMiddlewareHandler(&staticAuthChecker{}).AuthCheck()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for OPTIONS")
		}),
	)

	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/admin/events", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"https://gatherly.app"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	// allowed origin
	req := httptest.NewRequest("GET", "/admin/events", nil)
	req.Header.Set("Origin", "https://gatherly.app")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://gatherly.app", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	// unknown origin
	req = httptest.NewRequest("GET", "/admin/events", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// no origin header (same-origin navigation)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/admin/events", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

type recordingRateLimiter struct {
	keys []string
}

func (l *recordingRateLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	return &redis_rate.Result{Allowed: 1}, nil
}

func TestRateLimit_keyedPerCallerIP(t *testing.T) {
	limiter := &recordingRateLimiter{}
	handler := RateLimit(limiter, "login", 5, metrics.NewTestManager())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest("POST", "/auth/login", nil)
	req.Header.Set("X-Real-Ip", "198.51.100.23")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, limiter.keys, 2)
	assert.Equal(t, "login||203.0.113.7", limiter.keys[0])
	assert.Equal(t, "login||198.51.100.23", limiter.keys[1])
	assert.NotEqual(t, limiter.keys[0], limiter.keys[1], "each caller gets its own bucket")
}

func TestPanicRecovery(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	handler := PanicRecovery(metricsManager)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	)

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	})
}
