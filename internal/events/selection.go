package events

import (
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/middleware"
	"github.com/gatherly-app/gatherly-web/pkg"
)

// Selection is the read side of the selected-event store, all that the
// event-scoped resource handlers need
type Selection interface {
	Get(visitorID string) (Event, bool)
}

// SelectedFromRequest resolves the event the request is scoped to. When no
// event is selected it writes a 409 (the request is valid, the visitor
// state just cannot support it yet) and reports false; callers must return
// immediately in that case.
func SelectedFromRequest(w http.ResponseWriter, r *http.Request, selection Selection) (Event, bool) {
	visitorID, ok := middleware.VisitorIDFromContext(r.Context())
	if !ok {
		pkg.SendJSONError(w, http.StatusInternalServerError, "oops, something went wrong")
		return Event{}, false
	}

	event, ok := selection.Get(visitorID)
	if !ok {
		pkg.SendJSONError(w, http.StatusConflict, "no event selected")
		return Event{}, false
	}

	return event, true
}
