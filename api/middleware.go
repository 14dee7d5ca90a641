package api

import (
	"context"
	"net/http"
)

type contextKey int

const sessionKey contextKey = iota

const sessionCookieName = "study_session"

// SessionMiddleware authenticates the session cookie for the JSON API.
// Requests without a live session get a 401 with the shared error shape.
func (a *API) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := a.sessionFromRequest(r)
		if s == nil {
			writeError(w, http.StatusUnauthorized, "no session")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, s)))
	})
}

// PageSessionMiddleware guards the wizard pages; browsers without a session
// are sent back to the consent page.
func (a *API) PageSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := a.sessionFromRequest(r)
		if s == nil {
			http.Redirect(w, r, "/consent", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, s)))
	})
}

func (a *API) sessionFromRequest(r *http.Request) *session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return a.sessions.get(cookie.Value)
}

func writeSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionFromContext(ctx context.Context) *session {
	s, _ := ctx.Value(sessionKey).(*session)
	return s
}
