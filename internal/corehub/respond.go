package corehub

import (
	"errors"
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/pkg"
)

// WriteError translates a core API call failure into the gateway's own
// response: the server message and status when the core API produced one,
// 401 when the session was invalidated, a generic 500 for transport
// failures (whose details belong in the logs, not in the response body).
// Every failure is counted, labeled by how the core API let us down.
func WriteError(w http.ResponseWriter, metricsManager *metrics.Manager, err error) {
	if errors.Is(err, ErrUnauthorized) {
		metricsManager.CounterCoreAPIErrors.With(map[string]string{"status": "unauthorized"}).Inc()
		pkg.SendJSONError(w, http.StatusUnauthorized, "session expired, sign in again")
		return
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		metricsManager.CounterCoreAPIErrors.With(map[string]string{"status": "rejected"}).Inc()
		pkg.SendJSONError(w, apiErr.StatusCode, apiErr.UserMessage())
		return
	}

	metricsManager.CounterCoreAPIErrors.With(map[string]string{"status": "transport"}).Inc()
	pkg.SendJSONError(w, http.StatusInternalServerError, "oops, something went wrong")
}
