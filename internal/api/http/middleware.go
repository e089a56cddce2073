package httpapi

import (
	"context"
	"net/http"

	"tiffinbox/internal/domain"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionFromHeaders builds the session from the identity headers set by
// the identity-provider edge. Authentication itself is delegated; this
// service only consumes the resulting identity.
func SessionFromHeaders(r *http.Request) (domain.Session, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		return domain.Session{}, false
	}
	return domain.Session{
		UserID:     userID,
		Email:      r.Header.Get("X-User-Email"),
		GivenName:  r.Header.Get("X-User-Given-Name"),
		FamilyName: r.Header.Get("X-User-Family-Name"),
	}, true
}

// RequireSession rejects unauthenticated requests and threads the session
// through the request context so handlers receive it explicitly.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromHeaders(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	}
}

func sessionFrom(r *http.Request) domain.Session {
	session, _ := r.Context().Value(sessionKey).(domain.Session)
	return session
}
