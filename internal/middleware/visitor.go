package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// VisitorCookieName carries the visitor id; the id keys all per-visitor
// state (session, selected event, profile)
const VisitorCookieName = "gatherly_sid"

type contextKey string

const visitorIDKey contextKey = "visitor-id"

func ContextWithVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorIDKey, visitorID)
}

func VisitorIDFromContext(ctx context.Context) (string, bool) {
	visitorID, ok := ctx.Value(visitorIDKey).(string)
	return visitorID, ok && visitorID != ""
}

// VisitorSession assigns every visitor a stable id on first contact and
// puts it on the request context for all downstream handlers and stores
func VisitorSession() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var visitorID string
			if cookie, err := r.Cookie(VisitorCookieName); err == nil && cookie.Value != "" {
				visitorID = cookie.Value
			} else {
				visitorID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookieName,
					Value:    visitorID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			r = r.WithContext(ContextWithVisitorID(r.Context(), visitorID))
			next.ServeHTTP(w, r)
		})
	}
}
